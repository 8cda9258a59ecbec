package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Lex-Ashu/Whatsapp-Bot/internal/storage"
)

// DailyStats aggregates interaction records for one calendar day.
type DailyStats struct {
	Date          string         `json:"date"`
	TotalMessages int            `json:"total_messages"`
	UniqueUsers   int            `json:"unique_users"`
	PerUser       map[string]int `json:"per_user"`
}

// AnalyzeDailyLogs counts the interactions that fall on targetDate's day.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:    startOfDay.Format("2006-01-02"),
		PerUser: make(map[string]int),
	}

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserMessage == "" {
			continue
		}
		stats.TotalMessages++
		stats.PerUser[event.UserID]++
	}
	stats.UniqueUsers = len(stats.PerUser)
	return stats
}

// Summary renders the stats as a single log line for the activity feed.
func (s *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily summary %s: %d messages from %d users", s.Date, s.TotalMessages, s.UniqueUsers)
	if len(s.PerUser) == 0 {
		return b.String()
	}
	users := make([]string, 0, len(s.PerUser))
	for id := range s.PerUser {
		users = append(users, id)
	}
	sort.Strings(users)
	parts := make([]string, 0, len(users))
	for _, id := range users {
		parts = append(parts, fmt.Sprintf("%s=%d", id, s.PerUser[id]))
	}
	fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	return b.String()
}
