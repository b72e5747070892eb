package persist

import (
	"fmt"

	"github.com/rogersnm/todos/internal/config"
)

// Open builds the backend selected by cfg and wraps it in an Adapter.
func Open(cfg *config.Config, dataDir string) (*Adapter, error) {
	var b Backend
	switch cfg.BackendName() {
	case config.BackendFile:
		b = NewFileBackend(dataDir)
	case config.BackendSQLite:
		sb, err := NewSQLiteBackend(cfg.SQLitePath(dataDir))
		if err != nil {
			return nil, err
		}
		b = sb
	case config.BackendHTTP:
		if cfg.HTTP == nil || cfg.HTTP.URL == "" {
			return nil, fmt.Errorf("http backend requires http.url")
		}
		b = NewHTTPBackend(cfg.HTTP.URL, cfg.HTTP.APIKey)
	case config.BackendMemory:
		b = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return NewAdapter(b, cfg.DocumentKey()), nil
}
