package commands

import (
	"strings"
	"testing"

	"github.com/Lex-Ashu/Whatsapp-Bot/internal/conversation"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/settings"
)

func newInterpreter(t *testing.T) (*Interpreter, *conversation.Manager, *settings.Store) {
	t.Helper()
	conv := conversation.NewManager()
	st, err := settings.NewStore(nil)
	if err != nil {
		t.Fatalf("settings init: %v", err)
	}
	return New(conv, st), conv, st
}

func TestClearDirective(t *testing.T) {
	i, conv, _ := newInterpreter(t)

	reply, ok := i.Execute("u", "!clear")
	if !ok {
		t.Fatalf("!clear not recognized")
	}
	if reply != "No conversation history found." {
		t.Fatalf("unexpected reply for unseen user: %q", reply)
	}

	conv.AppendTurn("u", "hello", "hi")
	reply, ok = i.Execute("u", "!clear")
	if !ok || reply != "Conversation history cleared. What would you like to talk about?" {
		t.Fatalf("unexpected reply: ok=%v %q", ok, reply)
	}
	if got := conv.History("u"); len(got) != 1 {
		t.Fatalf("history not reset: %d messages", len(got))
	}
}

func TestHelpDirective(t *testing.T) {
	i, _, _ := newInterpreter(t)
	reply, ok := i.Execute("u", "!help")
	if !ok {
		t.Fatalf("!help not recognized")
	}
	for _, want := range []string{"!clear", "!help", "!info"} {
		if !strings.Contains(reply, want) {
			t.Fatalf("help text missing %q: %q", want, reply)
		}
	}
}

func TestInfoReflectsCurrentSettings(t *testing.T) {
	i, _, st := newInterpreter(t)
	if err := st.SetModel("gpt-x"); err != nil {
		t.Fatalf("set model: %v", err)
	}
	if err := st.SetTemperature(0.5); err != nil {
		t.Fatalf("set temperature: %v", err)
	}
	if err := st.SetMaxTokens(200); err != nil {
		t.Fatalf("set max tokens: %v", err)
	}

	reply, ok := i.Execute("u", "!info")
	if !ok {
		t.Fatalf("!info not recognized")
	}
	for _, want := range []string{"gpt-x", "0.5", "200"} {
		if !strings.Contains(reply, want) {
			t.Fatalf("info missing %q: %q", want, reply)
		}
	}

	// Not cached: a later update shows up on the next invocation.
	if err := st.SetModel("gpt-y"); err != nil {
		t.Fatalf("set model: %v", err)
	}
	reply, _ = i.Execute("u", "!info")
	if !strings.Contains(reply, "gpt-y") {
		t.Fatalf("info served stale model: %q", reply)
	}
}

func TestMatchingIsCaseInsensitiveAndTrimmed(t *testing.T) {
	i, conv, _ := newInterpreter(t)
	conv.AppendTurn("u", "hello", "hi")

	reply, ok := i.Execute("u", "  !CLEAR  ")
	if !ok || reply != "Conversation history cleared. What would you like to talk about?" {
		t.Fatalf("trimmed uppercase directive not matched: ok=%v %q", ok, reply)
	}
	if _, ok := i.Execute("u", "!Help"); !ok {
		t.Fatalf("mixed-case !Help not matched")
	}
}

func TestNonDirectivesPassThrough(t *testing.T) {
	i, _, _ := newInterpreter(t)
	for _, text := range []string{"hello", "!clearall", "please !clear my history", "!", "!unknown"} {
		if reply, ok := i.Execute("u", text); ok {
			t.Fatalf("%q wrongly matched a directive: %q", text, reply)
		}
	}
}
