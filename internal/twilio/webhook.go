// Package twilio exposes the WhatsApp webhook endpoint. It owns only the
// transport envelope; message semantics live in the bot processor.
package twilio

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// MessageProcessor is the inbound entry point the transport hands each
// delivery to. The returned text is wrapped into the TwiML envelope here.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, senderID, text string) string
}

type Server struct {
	proc   MessageProcessor
	server *http.Server
	port   int
}

func NewServer(proc MessageProcessor, port int) *Server {
	return &Server{proc: proc, port: port}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/bot", s.handleWebhook)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🌐 Webhook server listening on :%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// messagingResponse is the TwiML reply envelope Twilio expects.
type messagingResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message struct {
		Body string `xml:"Body"`
	} `xml:"Message"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	body := strings.TrimSpace(r.FormValue("Body"))
	sender := r.FormValue("From") // e.g. "whatsapp:+1234567890"

	reply := s.proc.ProcessMessage(r.Context(), sender, body)

	var resp messagingResponse
	resp.Message.Body = reply

	w.Header().Set("Content-Type", "application/xml")
	if _, err := fmt.Fprint(w, xml.Header); err != nil {
		return
	}
	if err := xml.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("failed to encode twiml response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
