package settings

import (
	"fmt"
	"sync"
)

// Config is the runtime-tunable bot configuration. It is persisted in
// full after every update so readers never observe a partial write.
type Config struct {
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	APIKey         string  `json:"api_key"`
	ServerPort     int     `json:"server_port"`
	AppearanceMode string  `json:"appearance_mode"` // "dark" or "light"
}

func Default() Config {
	return Config{
		Model:          "gpt-3.5-turbo",
		Temperature:    0.7,
		MaxTokens:      1000,
		ServerPort:     5000,
		AppearanceMode: "dark",
	}
}

// Repository abstracts persistence of the full configuration.
type Repository interface {
	// Load returns the stored config and whether one existed.
	Load() (Config, bool, error)
	Save(Config) error
}

// Store holds the live configuration. Updates are single-writer and keep
// the in-memory value even when persistence fails; the persist error is
// returned so callers can log the degraded mode.
type Store struct {
	mu   sync.RWMutex
	repo Repository
	cfg  Config
}

// NewStore loads the persisted config, falling back to (and persisting)
// the defaults when none exists.
func NewStore(repo Repository) (*Store, error) {
	s := &Store{repo: repo, cfg: Default()}
	if repo == nil {
		return s, nil
	}
	cfg, found, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if found {
		s.cfg = cfg
		return s, nil
	}
	if err := repo.Save(s.cfg); err != nil {
		return nil, fmt.Errorf("persist default config: %w", err)
	}
	return s, nil
}

// Snapshot returns the current configuration by value.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Store) SetModel(model string) error {
	if model == "" {
		return fmt.Errorf("model must not be empty")
	}
	return s.update(func(c *Config) { c.Model = model })
}

func (s *Store) SetTemperature(t float64) error {
	if t < 0 || t > 1 {
		return fmt.Errorf("temperature %v out of range [0,1]", t)
	}
	return s.update(func(c *Config) { c.Temperature = t })
}

func (s *Store) SetMaxTokens(n int) error {
	if n <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", n)
	}
	return s.update(func(c *Config) { c.MaxTokens = n })
}

func (s *Store) SetAPIKey(key string) error {
	return s.update(func(c *Config) { c.APIKey = key })
}

func (s *Store) SetServerPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range [1,65535]", port)
	}
	return s.update(func(c *Config) { c.ServerPort = port })
}

func (s *Store) SetAppearanceMode(mode string) error {
	if mode != "dark" && mode != "light" {
		return fmt.Errorf("appearance mode must be dark or light, got %q", mode)
	}
	return s.update(func(c *Config) { c.AppearanceMode = mode })
}

func (s *Store) update(mutate func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.cfg)
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(s.cfg); err != nil {
		return fmt.Errorf("persist config: %w", err)
	}
	return nil
}
