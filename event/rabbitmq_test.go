package event

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLogAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()
	OutLogFile = file
	InLogFile = file

	OutLog(LogData{Time: 1, Queue: "analytics", Action: "like_added", Data: `{"user_id":1}`})
	InLog(LogData{Time: 2, Queue: "broadcast", Action: "announce", Data: "hello"})

	reader, err := os.Open(path)
	if err != nil {
		t.Fatalf("reopen log: %v", err)
	}
	defer reader.Close()

	var lines []LogData
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		data := LogData{}
		if err := json.Unmarshal(scanner.Bytes(), &data); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, data)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0].Action != "like_added" || lines[0].Queue != "analytics" {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].Action != "announce" || lines[1].Data != "hello" {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}
