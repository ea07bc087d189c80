package log

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessageUnmarshalJSON(t *testing.T) {
	data := `{"timestamp":1585261452471,"level":"INFO","message":"hello"}`
	var m Message
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		t.Fatalf("json.Unmarshal(%q, _) returned error: %v", data, err)
	}
	want := Message{
		Timestamp: time.Unix(0, 1585261452471*int64(time.Millisecond)),
		Level:     Info,
		Message:   "hello",
	}
	if m != want {
		t.Errorf("json.Unmarshal(%q, _) = %+v, want %+v", data, m, want)
	}
}

func TestMessageUnmarshalJSONInvalid(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"timestamp":"not a number"}`), &m); err == nil {
		t.Error("json.Unmarshal with a non-numeric timestamp returned nil error")
	}
}

func TestCapabilitiesJSON(t *testing.T) {
	caps := Capabilities{Performance: All}
	data, err := json.Marshal(caps)
	if err != nil {
		t.Fatalf("json.Marshal(%+v) returned error: %v", caps, err)
	}
	if got, want := string(data), `{"performance":"ALL"}`; got != want {
		t.Errorf("json.Marshal(caps) = %q, want %q", got, want)
	}
}
