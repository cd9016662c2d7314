package utils

import "testing"

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		"bob":        "bob",
		"@bob":       "bob",
		"  @Bob  ":   "bob",
		"The_Dude":   "the_dude",
		"@the_dude ": "the_dude",
	}
	for raw, want := range cases {
		if got := NormalizeHandle(raw); got != want {
			t.Fatalf("NormalizeHandle(%q) = %q, want %q", raw, got, want)
		}
	}
}
