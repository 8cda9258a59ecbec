package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRecorder_AppendAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "interactions.db")
	rec, err := NewSQLiteRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}
	defer func() { _ = rec.Close() }()

	want := []Event{
		{Timestamp: time.Unix(1, 0).UTC(), RequestID: "r1", UserID: "whatsapp:+1", UserName: "+1", UserMessage: "hi", AssistantResponse: "hello"},
		{Timestamp: time.Unix(2, 0).UTC(), RequestID: "r2", UserID: "whatsapp:+2", UserName: "Bob", UserMessage: "foo", AssistantResponse: "bar"},
	}
	for _, ev := range want {
		if err := rec.AppendInteraction(ev); err != nil {
			t.Fatalf("append %s: %v", ev.RequestID, err)
		}
	}

	events, err := rec.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2, got %d", len(events))
	}
	if events[0].RequestID != "r1" || events[1].RequestID != "r2" {
		t.Fatalf("order mismatch: %+v", events)
	}
	if events[1].UserName != "Bob" || events[1].AssistantResponse != "bar" {
		t.Fatalf("fields lost: %+v", events[1])
	}
	if !events[0].Timestamp.Equal(want[0].Timestamp) {
		t.Fatalf("timestamp mismatch: %v != %v", events[0].Timestamp, want[0].Timestamp)
	}
}
