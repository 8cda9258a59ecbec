// Package bot mediates every inbound webhook message into an outbound
// reply: name resolution, directive handling, history management, the
// completion round-trip and event emission.
package bot

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lex-Ashu/Whatsapp-Bot/internal/commands"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/contacts"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/conversation"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/eventlog"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/llm"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/settings"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/storage"
)

const apiKeyMissingReply = "⚠️ API key not set. Please contact the administrator."

// gatewayTimeout bounds the completion round-trip; expiry is reported to
// the user like any other gateway failure.
const gatewayTimeout = 60 * time.Second

// Processor handles one inbound message per call. Calls for the same
// sender are serialized around the history read-modify-write; different
// senders proceed independently.
type Processor struct {
	contacts *contacts.Directory
	conv     *conversation.Manager
	interp   *commands.Interpreter
	settings *settings.Store
	factory  *llm.Factory
	events   *eventlog.Log
	recorder storage.Recorder // optional

	gwMu    sync.Mutex
	gateway llm.Client
	gwKey   string

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func New(dir *contacts.Directory, conv *conversation.Manager, interp *commands.Interpreter,
	st *settings.Store, factory *llm.Factory, events *eventlog.Log, rec storage.Recorder) *Processor {
	return &Processor{
		contacts: dir,
		conv:     conv,
		interp:   interp,
		settings: st,
		factory:  factory,
		events:   events,
		recorder: rec,
		locks:    make(map[string]*sync.Mutex),
	}
}

// ProcessMessage resolves the sender, runs directives, and otherwise
// relays the conversation to the completion backend. It always returns a
// reply; failures become apologetic text, never an error to the caller.
func (p *Processor) ProcessMessage(ctx context.Context, senderID, text string) string {
	rid := uuid.NewString()[:8]
	name := p.contacts.Resolve(senderID)

	p.events.Appendf("[%s] Received from %s: %s", rid, name, text)

	if reply, ok := p.interp.Execute(senderID, text); ok {
		p.events.Appendf("[%s] Sent to %s: %s", rid, name, reply)
		return reply
	}

	// One sender at a time past this point, so concurrent messages from
	// the same user cannot interleave their history read and append.
	unlock := p.lockSender(senderID)
	defer unlock()

	history := p.conv.History(senderID)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: text})

	cfg := p.settings.Snapshot()
	if !p.factory.HasCredential(cfg.APIKey) {
		// The pending user turn is dropped: only a successful completion
		// persists the turn via AppendTurn.
		p.events.Appendf("[%s] Sent to %s: %s", rid, name, apiKeyMissingReply)
		return apiKeyMissingReply
	}

	p.events.Appendf("[%s] Processing request for %s...", rid, name)

	gw, err := p.currentGateway(cfg.APIKey)
	if err != nil {
		return p.failure(rid, err)
	}

	gctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	resp, err := gw.Generate(gctx, history, llm.Params{
		Model:       cfg.Model,
		Temperature: float32(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return p.failure(rid, err)
	}

	p.conv.AppendTurn(senderID, text, resp.Content)

	if p.recorder != nil {
		ev := storage.Event{
			Timestamp:         time.Now().UTC(),
			RequestID:         rid,
			UserID:            senderID,
			UserName:          name,
			UserMessage:       text,
			AssistantResponse: resp.Content,
		}
		if err := p.recorder.AppendInteraction(ev); err != nil {
			log.Printf("failed to record interaction: %v", err)
		}
	}

	p.events.Appendf("[%s] Sent to %s: %s", rid, name, resp.Content)
	return resp.Content
}

func (p *Processor) failure(rid string, err error) string {
	p.events.Appendf("[%s] ERROR: %v", rid, err)
	return "Sorry, I encountered an error: " + err.Error()
}

// currentGateway returns the completion client for the given key,
// rebuilding it when the key changed since the last call.
func (p *Processor) currentGateway(apiKey string) (llm.Client, error) {
	p.gwMu.Lock()
	defer p.gwMu.Unlock()
	if p.gateway != nil && p.gwKey == apiKey {
		return p.gateway, nil
	}
	cl, err := p.factory.CreateClient(apiKey)
	if err != nil {
		return nil, err
	}
	p.gateway = cl
	p.gwKey = apiKey
	return cl, nil
}

func (p *Processor) lockSender(senderID string) func() {
	p.lockMu.Lock()
	mu, ok := p.locks[senderID]
	if !ok {
		mu = &sync.Mutex{}
		p.locks[senderID] = mu
	}
	p.lockMu.Unlock()
	mu.Lock()
	return mu.Unlock
}
