package conversation

import (
	"sort"
	"sync"

	"github.com/Lex-Ashu/Whatsapp-Bot/internal/llm"
)

// SystemPrompt seeds every new conversation and always stays at index 0,
// including after trimming.
const SystemPrompt = "You are a helpful assistant responding via WhatsApp."

// maxMessages caps a stored history. When an append pushes the history
// past this limit, the system message plus the most recent maxMessages-1
// entries are retained.
const maxMessages = 20

// Manager owns per-user conversation histories. All methods are safe for
// concurrent use; callers that need a whole read-then-append cycle to be
// atomic for one user serialize it themselves (see bot.Processor).
type Manager struct {
	mu       sync.RWMutex
	sessions map[string][]llm.Message
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string][]llm.Message)}
}

// History returns a copy of the user's history, seeding a fresh one with
// the system prompt on first contact.
func (m *Manager) History(userID string) []llm.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.sessionLocked(userID)
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out
}

// AppendTurn stores one full turn: the user message followed by the
// assistant reply. Both entries land in a single critical section so a
// concurrent reader never observes half a turn.
func (m *Manager) AppendTurn(userID, userText, assistantText string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.sessionLocked(userID)
	msgs = append(msgs,
		llm.Message{Role: llm.RoleUser, Content: userText},
		llm.Message{Role: llm.RoleAssistant, Content: assistantText},
	)
	m.sessions[userID] = trim(msgs)
}

// Clear resets the user's history to the seeded single-message state.
// It reports whether a history existed to reset.
func (m *Manager) Clear(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; !ok {
		return false
	}
	m.sessions[userID] = []llm.Message{{Role: llm.RoleSystem, Content: SystemPrompt}}
	return true
}

// Users lists user IDs with an active history, sorted for stable display.
func (m *Manager) Users() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) sessionLocked(userID string) []llm.Message {
	if _, ok := m.sessions[userID]; !ok {
		m.sessions[userID] = []llm.Message{{Role: llm.RoleSystem, Content: SystemPrompt}}
	}
	return m.sessions[userID]
}

func trim(msgs []llm.Message) []llm.Message {
	if len(msgs) <= maxMessages {
		return msgs
	}
	out := make([]llm.Message, 0, maxMessages)
	out = append(out, msgs[0])
	out = append(out, msgs[len(msgs)-(maxMessages-1):]...)
	return out
}
