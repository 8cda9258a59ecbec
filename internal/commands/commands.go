// Package commands intercepts control directives before any message can
// reach the completion backend.
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lex-Ashu/Whatsapp-Bot/internal/conversation"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/settings"
)

const helpText = "WhatsApp OpenAI Bot Help:\n" +
	"- !clear: Clear conversation history\n" +
	"- !help: Show this help message\n" +
	"- !info: Show current bot configuration\n" +
	"Just type a message to chat with the AI assistant!"

type Interpreter struct {
	conv     *conversation.Manager
	settings *settings.Store
}

func New(conv *conversation.Manager, st *settings.Store) *Interpreter {
	return &Interpreter{conv: conv, settings: st}
}

// Execute runs the directive contained in text, if any. Matching is
// case-insensitive on the whitespace-trimmed message and only ever exact:
// a message merely containing a directive is ordinary chat.
func (i *Interpreter) Execute(userID, text string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "!clear":
		if i.conv.Clear(userID) {
			return "Conversation history cleared. What would you like to talk about?", true
		}
		return "No conversation history found.", true
	case "!help":
		return helpText, true
	case "!info":
		cfg := i.settings.Snapshot()
		return fmt.Sprintf("Bot Configuration:\n- Model: %s\n- Temperature: %s\n- Max tokens: %d",
			cfg.Model, strconv.FormatFloat(cfg.Temperature, 'g', -1, 64), cfg.MaxTokens), true
	}
	return "", false
}
