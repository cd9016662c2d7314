package event

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"moviematch-bot/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelData is one event handed to an in-process listener.
type ChannelData struct {
	Action string
	Data   []byte
}

type SubscribeListener struct {
	Queue   string
	Channel chan ChannelData
}

// LogData is the JSONL record mirrored to the event log files.
type LogData struct {
	Time    int64  `json:"time"`
	Queue   string `json:"queue"`
	Action  string `json:"action"`
	Data    string `json:"data"`
}

const ActionHeader string = "x-action"
const InLogPath string = "log/in.log"
const OutLogPath string = "log/out.log"

var (
	RabbitMQConnection *amqp.Connection
	RabbitMQChannel    *amqp.Channel
	RabbitMQQueue      = make(map[string]amqp.Queue)

	InLogFile  *os.File
	OutLogFile *os.File
	err        error
)

func RabbitMQConnect(queues []string) {
	// Connect to RabbitMQ server
	RabbitMQConnection, err = amqp.Dial(fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		config.Config("RABBITMQ_USER"),
		config.Config("RABBITMQ_PASSWORD"),
		config.Config("RABBITMQ_HOST"),
		config.Config("RABBITMQ_PORT"),
	))
	if err != nil {
		panic("failed to connect to RabbitMQ")
	}
	log.Printf("connection opened to RabbitMQ server")

	// Open a RabbitMQ channel
	RabbitMQChannel, err = RabbitMQConnection.Channel()
	if err != nil {
		panic("failed to open a RabbitMQ channel")
	}
	log.Printf("opened a RabbitMQ channel")

	// Declare a queues
	for _, name := range queues {
		queue, err := RabbitMQChannel.QueueDeclare(
			name,  // name
			false, // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			panic("failed to declare a RabbitMQ queue")
		}

		RabbitMQQueue[name] = queue
		log.Printf("success declare a RabbitMQ queue: %s", name)
	}

	// Open event log files
	InLogFile, err = os.OpenFile(InLogPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		panic(err)
	}
	OutLogFile, err = os.OpenFile(OutLogPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		panic(err)
	}
}

// RabbitMQSubscribe forwards queue messages to in-process listener
// channels. The bot consumes the "broadcast" queue this way.
func RabbitMQSubscribe(queues []SubscribeListener) {
	for _, queue := range queues {
		msgs, err := RabbitMQChannel.Consume(
			queue.Queue, // queue
			"",          // consumer
			false,       // auto-ack
			false,       // exclusive
			false,       // no-local
			false,       // no-wait
			nil,         // args
		)
		if err != nil {
			panic("failed to register a consumer")
		}
		log.Printf("success subscribe to RabbitMQ [%s] queue", queue.Queue)

		go func(queue SubscribeListener) {
			for msg := range msgs {
				action, _ := msg.Headers[ActionHeader].(string)

				if config.Config("EVENT_MODE") != "DISABLE" {
					InLog(LogData{
						Time:   time.Now().UnixMicro(),
						Queue:  queue.Queue,
						Action: action,
						Data:   string(msg.Body[:]),
					})
				}

				msg.Ack(false)

				queue.Channel <- ChannelData{
					Action: action,
					Data:   msg.Body,
				}
			}
		}(queue)
	}
}

// Emit publishes one activity event to a queue and mirrors it to the
// out-log unless event logging is disabled.
func Emit(queue string, action string, data []byte, logEvent bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := RabbitMQChannel.PublishWithContext(
		ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Headers: amqp.Table{
				ActionHeader: action,
			},
			Body: data,
		},
	)
	if err != nil {
		log.Printf("failed to publish event %s/%s: %v", queue, action, err)
		return
	}

	if logEvent && config.Config("EVENT_MODE") != "DISABLE" {
		OutLog(LogData{
			Time:   time.Now().UnixMicro(),
			Queue:  queue,
			Action: action,
			Data:   string(data[:]),
		})
	}
}

// InLog and OutLog run from the subscribe goroutines, so they keep
// their errors local instead of touching the package-level err.
func InLog(data LogData) {
	eventJson, _ := json.Marshal(data)
	if _, writeErr := InLogFile.WriteString(string(eventJson) + "\n"); writeErr != nil {
		log.Printf("failed to append in-log: %v", writeErr)
	}
}

func OutLog(data LogData) {
	eventJson, _ := json.Marshal(data)
	if _, writeErr := OutLogFile.WriteString(string(eventJson) + "\n"); writeErr != nil {
		log.Printf("failed to append out-log: %v", writeErr)
	}
}

// Init replays the out-log back into the queues when EVENT_MODE=OUT is
// set, so a drained analytics consumer can be refilled after the fact.
func Init() {
	if config.Config("EVENT_MODE") != "OUT" {
		return
	}

	outLog, err := os.Open(OutLogPath)
	if err != nil {
		log.Fatalf("failed opening file: %s", err)
	}
	scanner := bufio.NewScanner(outLog)
	for scanner.Scan() {
		data := LogData{}
		json.Unmarshal([]byte(scanner.Text()), &data)
		Emit(
			data.Queue,
			data.Action,
			[]byte(data.Data),
			false,
		)
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
	outLog.Close()
}
