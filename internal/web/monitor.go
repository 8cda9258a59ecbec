// Package web serves the monitoring dashboard: activity log, active
// conversations and the settings form that drives runtime config updates.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Lex-Ashu/Whatsapp-Bot/internal/contacts"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/conversation"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/llm"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/settings"
)

// maxLogLines bounds the in-memory activity feed shown on the dashboard.
// Older lines fall off; the interaction recorder keeps the full record.
const maxLogLines = 500

type Monitor struct {
	settings  *settings.Store
	conv      *conversation.Manager
	contacts  *contacts.Directory
	server    *http.Server
	port      int
	startTime time.Time

	mu       sync.Mutex
	logLines []string
}

func NewMonitor(st *settings.Store, conv *conversation.Manager, dir *contacts.Directory, port int) *Monitor {
	return &Monitor{
		settings:  st,
		conv:      conv,
		contacts:  dir,
		port:      port,
		startTime: time.Now(),
	}
}

// AppendLogLine adds a rendered event line to the dashboard feed.
func (m *Monitor) AppendLogLine(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}

func (m *Monitor) recentLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.logLines))
	copy(out, m.logLines)
	return out
}

func (m *Monitor) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", m.handleDashboard)
	mux.HandleFunc("/api/status", m.handleStatus)
	mux.HandleFunc("/api/log", m.handleLog)
	mux.HandleFunc("/settings", m.handleSettings)
	mux.HandleFunc("/conversations/clear", m.handleClear)

	m.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", m.port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🌐 Monitor dashboard on http://localhost:%d", m.port)
	return m.server.ListenAndServe()
}

func (m *Monitor) Stop() error {
	if m.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.server.Shutdown(ctx)
}

func (m *Monitor) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":        "ok",
		"uptime":        time.Since(m.startTime).Round(time.Second).String(),
		"conversations": len(m.conv.Users()),
	})
}

func (m *Monitor) handleLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.recentLog())
}

func (m *Monitor) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if err := m.applySettings(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applySettings feeds each submitted field through the corresponding
// update operation; every accepted field re-persists the full config.
func (m *Monitor) applySettings(r *http.Request) error {
	if v := r.FormValue("model"); v != "" {
		if err := m.settings.SetModel(v); err != nil {
			return err
		}
	}
	if v := r.FormValue("temperature"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("temperature: %w", err)
		}
		if err := m.settings.SetTemperature(t); err != nil {
			return err
		}
	}
	if v := r.FormValue("max_tokens"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("max tokens: %w", err)
		}
		if err := m.settings.SetMaxTokens(n); err != nil {
			return err
		}
	}
	if v := r.FormValue("api_key"); v != "" {
		if err := m.settings.SetAPIKey(v); err != nil {
			return err
		}
	}
	if v := r.FormValue("server_port"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("server port: %w", err)
		}
		if err := m.settings.SetServerPort(p); err != nil {
			return err
		}
	}
	if v := r.FormValue("appearance_mode"); v != "" {
		if err := m.settings.SetAppearanceMode(v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Monitor) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user := r.FormValue("user")
	if user == "" {
		http.Error(w, "missing user", http.StatusBadRequest)
		return
	}
	m.conv.Clear(user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type conversationView struct {
	UserID   string
	Name     string
	Messages []llm.Message
}

type dashboardData struct {
	Config        settings.Config
	KeyConfigured bool
	LogLines      []string
	Conversations []conversationView
	Uptime        string
}

func (m *Monitor) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	cfg := m.settings.Snapshot()
	data := dashboardData{
		Config:        cfg,
		KeyConfigured: cfg.APIKey != "",
		LogLines:      m.recentLog(),
		Uptime:        time.Since(m.startTime).Round(time.Second).String(),
	}
	for _, id := range m.conv.Users() {
		view := conversationView{UserID: id, Name: m.contacts.Resolve(id)}
		for _, msg := range m.conv.History(id) {
			if msg.Role == llm.RoleSystem {
				continue
			}
			view.Messages = append(view.Messages, msg)
		}
		data.Conversations = append(data.Conversations, view)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		log.Printf("failed to render dashboard: %v", err)
	}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<title>WhatsApp Bot Monitor</title>
<style>
body { font-family: sans-serif; margin: 2em; }
body.dark { background: #1e1e1e; color: #eee; }
body.dark input, body.dark select { background: #333; color: #eee; }
section { margin-bottom: 2em; }
pre.log { background: #111; color: #9f9; padding: 1em; max-height: 24em; overflow-y: auto; }
.msg-user { color: #4aa; }
.msg-assistant { color: #a84; }
</style>
</head>
<body class="{{.Config.AppearanceMode}}">
<h1>WhatsApp Bot</h1>
<p>Uptime: {{.Uptime}} | API key: {{if .KeyConfigured}}configured{{else}}not set{{end}}</p>

<section>
<h2>Activity Log</h2>
<pre class="log">{{range .LogLines}}{{.}}
{{end}}</pre>
</section>

<section>
<h2>Conversations</h2>
{{if not .Conversations}}<p>No active conversations</p>{{end}}
{{range .Conversations}}
<h3>{{.Name}}</h3>
<form method="post" action="/conversations/clear">
<input type="hidden" name="user" value="{{.UserID}}">
<button type="submit">Clear Conversation</button>
</form>
<ul>
{{range .Messages}}<li class="msg-{{.Role}}"><b>{{.Role}}:</b> {{.Content}}</li>
{{end}}
</ul>
{{end}}
</section>

<section>
<h2>Settings</h2>
<form method="post" action="/settings">
<p><label>Model: <input name="model" value="{{.Config.Model}}"></label></p>
<p><label>Temperature: <input name="temperature" value="{{.Config.Temperature}}"></label></p>
<p><label>Max tokens: <input name="max_tokens" value="{{.Config.MaxTokens}}"></label></p>
<p><label>API key: <input name="api_key" type="password" placeholder="unchanged"></label></p>
<p><label>Server port: <input name="server_port" value="{{.Config.ServerPort}}"></label></p>
<p><label>Appearance:
<select name="appearance_mode">
<option value="dark" {{if eq .Config.AppearanceMode "dark"}}selected{{end}}>dark</option>
<option value="light" {{if eq .Config.AppearanceMode "light"}}selected{{end}}>light</option>
</select></label></p>
<button type="submit">Save Settings</button>
</form>
<p>Port changes take effect after a webhook server restart.</p>
</section>
</body>
</html>
`))
