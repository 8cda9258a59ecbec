package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/Lex-Ashu/Whatsapp-Bot/internal/analytics"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/bot"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/commands"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/config"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/contacts"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/conversation"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/eventlog"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/llm"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/scheduler"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/settings"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/storage"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/twilio"
	"github.com/Lex-Ashu/Whatsapp-Bot/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	var settingsRepo settings.Repository
	if cfg.ConfigFilePath != "" {
		repo, err := settings.NewFileRepository(cfg.ConfigFilePath)
		if err != nil {
			log.Printf("failed to init settings repo: %v", err)
		} else {
			settingsRepo = repo
		}
	}
	settingsStore, err := settings.NewStore(settingsRepo)
	if err != nil {
		log.Fatalf("failed to init settings: %v", err)
	}

	// Seed the stored API key from the environment on first run.
	if cfg.OpenAIAPIKey != "" && settingsStore.Snapshot().APIKey == "" {
		if err := settingsStore.SetAPIKey(cfg.OpenAIAPIKey); err != nil {
			log.Printf("failed to store env api key: %v", err)
		}
	}

	var userRepo contacts.Repository
	if cfg.UserFilePath != "" {
		repo, err := contacts.NewFileRepository(cfg.UserFilePath)
		if err != nil {
			log.Printf("failed to init user details repo: %v", err)
		} else {
			userRepo = repo
		}
	}
	directory := contacts.NewDirectory(userRepo)

	recorder := newRecorder(cfg)

	conv := conversation.NewManager()
	events := eventlog.New()

	factory := &llm.Factory{
		Provider:         string(cfg.LLMProvider),
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}

	processor := bot.New(directory, conv, commands.New(conv, settingsStore), settingsStore, factory, events, recorder)

	monitor := web.NewMonitor(settingsStore, conv, directory, cfg.MonitorPort)
	go consumeEvents(events, monitor)

	sched := scheduler.New()
	if recorder != nil {
		sched.SetSummaryFunction(dailySummary(recorder, events))
	}
	if err := sched.Start(); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}

	webhook := twilio.NewServer(processor, settingsStore.Snapshot().ServerPort)
	go func() {
		if err := webhook.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("webhook server: %v", err)
		}
	}()
	go func() {
		if err := monitor.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("monitor server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")
	sched.Stop()
	if err := webhook.Stop(); err != nil {
		log.Printf("webhook shutdown: %v", err)
	}
	if err := monitor.Stop(); err != nil {
		log.Printf("monitor shutdown: %v", err)
	}
	events.Close()
}

func newRecorder(cfg *config.Config) storage.Recorder {
	switch cfg.StorageDriver {
	case "sqlite":
		rec, err := storage.NewSQLiteRecorder(cfg.SQLitePath)
		if err != nil {
			log.Printf("failed to init sqlite recorder: %v", err)
			return nil
		}
		return rec
	case "jsonl", "":
		if cfg.LogFilePath == "" {
			return nil
		}
		rec, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
			return nil
		}
		return rec
	default:
		log.Printf("unknown storage driver %q, interactions will not be recorded", cfg.StorageDriver)
		return nil
	}
}

// consumeEvents is the single event-log consumer: it renders each event
// to the console and mirrors it into the dashboard feed.
func consumeEvents(events *eventlog.Log, monitor *web.Monitor) {
	for {
		ev, ok := events.Next()
		if !ok {
			return
		}
		line := fmt.Sprintf("[%s] %s", ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Text)
		switch {
		case strings.Contains(ev.Text, "ERROR"):
			color.Red("%s", line)
		case strings.Contains(ev.Text, "Received from"):
			color.Cyan("%s", line)
		case strings.Contains(ev.Text, "Sent to"):
			color.Green("%s", line)
		default:
			fmt.Println(line)
		}
		monitor.AppendLogLine(line)
	}
}

func dailySummary(rec storage.Recorder, events *eventlog.Log) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		interactions, err := rec.LoadInteractions()
		if err != nil {
			return fmt.Errorf("load interactions: %w", err)
		}
		stats := analytics.AnalyzeDailyLogs(interactions, time.Now().UTC())
		events.Append(stats.Summary())
		return nil
	}
}
