package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Lex-Ashu/Whatsapp-Bot/internal/llm"
)

func TestHistorySeedsOnFirstContact(t *testing.T) {
	m := NewManager()
	msgs := m.History("whatsapp:+100")
	if len(msgs) != 1 {
		t.Fatalf("want 1 seeded message, got %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem || msgs[0].Content != SystemPrompt {
		t.Fatalf("unexpected seed: %+v", msgs[0])
	}
	// Idempotent: a second fetch does not grow the history.
	if got := len(m.History("whatsapp:+100")); got != 1 {
		t.Fatalf("second fetch grew history to %d", got)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	m := NewManager()
	m.AppendTurn("u", "hello", "hi")
	msgs := m.History("u")
	msgs[1] = llm.Message{Role: llm.RoleUser, Content: "mutated"}
	if m.History("u")[1].Content != "hello" {
		t.Fatalf("internal state mutated via returned slice")
	}
}

func TestAppendTurnOrdering(t *testing.T) {
	m := NewManager()
	m.AppendTurn("u", "hello", "hi")
	msgs := m.History("u")
	if len(msgs) != 3 {
		t.Fatalf("want 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != llm.RoleUser || msgs[1].Content != "hello" {
		t.Fatalf("unexpected [1]: %+v", msgs[1])
	}
	if msgs[2].Role != llm.RoleAssistant || msgs[2].Content != "hi" {
		t.Fatalf("unexpected [2]: %+v", msgs[2])
	}
}

func TestClear(t *testing.T) {
	m := NewManager()
	if m.Clear("unknown") {
		t.Fatalf("clear reported reset for unseen user")
	}
	m.AppendTurn("u", "hello", "hi")
	if !m.Clear("u") {
		t.Fatalf("clear did not report reset")
	}
	msgs := m.History("u")
	if len(msgs) != 1 || msgs[0].Role != llm.RoleSystem {
		t.Fatalf("history not reset to seed: %+v", msgs)
	}
}

func TestTrimKeepsSystemAndRecent(t *testing.T) {
	m := NewManager()
	for i := 0; i < 30; i++ {
		m.AppendTurn("u", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	msgs := m.History("u")
	if len(msgs) != maxMessages {
		t.Fatalf("want %d messages after trim, got %d", maxMessages, len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem {
		t.Fatalf("system message lost: %+v", msgs[0])
	}
	// Most recent turn must be the last appended one.
	last := msgs[len(msgs)-1]
	if last.Role != llm.RoleAssistant || last.Content != "a29" {
		t.Fatalf("unexpected last message: %+v", last)
	}
}

func TestHistoryLengthFormula(t *testing.T) {
	// len(history) == min(1+2N, 20) for N successful turns.
	for _, n := range []int{1, 5, 9, 10, 25} {
		m := NewManager()
		for i := 0; i < n; i++ {
			m.AppendTurn("u", "q", "a")
		}
		want := 1 + 2*n
		if want > maxMessages {
			want = maxMessages
		}
		msgs := m.History("u")
		if len(msgs) != want {
			t.Fatalf("N=%d: want len %d, got %d", n, want, len(msgs))
		}
		if msgs[0].Role != llm.RoleSystem {
			t.Fatalf("N=%d: history[0] is %q, not system", n, msgs[0].Role)
		}
	}
}

func TestConcurrentAppendsNoLostTurns(t *testing.T) {
	m := NewManager()
	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.AppendTurn("u", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}(i)
	}
	wg.Wait()
	if got := len(m.History("u")); got != 1+2*n {
		t.Fatalf("lost turns: want %d messages, got %d", 1+2*n, got)
	}
}
