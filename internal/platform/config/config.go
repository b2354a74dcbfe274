package config

import (
	"fmt"
	"path/filepath"
)

// Config carries the host-side paths the CLI needs: where the remote
// config fixture lives and where analytics events are projected.
type Config struct {
	ConfigPath string
	EventsDB   string
	Renderer   string // optional path to an out-of-process renderer binary
}

func New(dir string) (Config, error) {
	if dir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		ConfigPath: filepath.Join(dir, "remote.yaml"),
		EventsDB:   filepath.Join(dir, ".rsoc", "events.db"),
	}, nil
}
