package contacts

import (
	"log"
	"strings"
	"sync"
)

// channelPrefix decorates sender IDs delivered by the WhatsApp webhook,
// e.g. "whatsapp:+15551234567".
const channelPrefix = "whatsapp:"

// Repository abstracts persistence of the id -> display name mapping.
type Repository interface {
	LoadAll() (map[string]string, error)
	SaveAll(map[string]string) error
}

// Directory resolves sender IDs to display names. An unseen ID is
// materialized once from its bare address and never re-derived afterwards,
// even if the derivation changes (known staleness trade-off).
type Directory struct {
	mu    sync.Mutex
	repo  Repository
	names map[string]string
}

func NewDirectory(repo Repository) *Directory {
	d := &Directory{repo: repo, names: make(map[string]string)}
	if repo != nil {
		names, err := repo.LoadAll()
		if err != nil {
			log.Printf("failed to preload user details: %v", err)
		} else {
			d.names = names
		}
	}
	return d
}

func (d *Directory) Resolve(userID string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if name, ok := d.names[userID]; ok {
		return name
	}
	name := strings.TrimPrefix(userID, channelPrefix)
	d.names[userID] = name
	if d.repo != nil {
		if err := d.repo.SaveAll(d.names); err != nil {
			// Keep the in-memory mapping; a restart may lose it.
			log.Printf("failed to persist user details: %v", err)
		}
	}
	return name
}

// Known lists resolved IDs, for the monitor UI.
func (d *Directory) Known() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]string, len(d.names))
	for id, name := range d.names {
		out[id] = name
	}
	return out
}
