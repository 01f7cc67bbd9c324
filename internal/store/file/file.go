// Package file persists users and site configuration as JSON documents in a
// data directory (users.json and config.json).
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"launchpad/internal/model"
)

const (
	usersFileName  = "users.json"
	configFileName = "config.json"
)

// Store reads the files on every call. A missing or unparsable file is
// replaced with default content, which is then returned.
type Store struct {
	mu sync.Mutex

	usersPath  string
	configPath string
	log        *slog.Logger
}

func NewStore(dataDir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		usersPath:  filepath.Join(dataDir, usersFileName),
		configPath: filepath.Join(dataDir, configFileName),
		log:        log,
	}, nil
}

func (s *Store) GetConfig(_ context.Context) (model.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg model.SiteConfig
	if err := s.readJSON(s.configPath, &cfg, model.DefaultSiteConfig()); err != nil {
		return model.SiteConfig{}, err
	}
	return cfg, nil
}

func (s *Store) SaveConfig(_ context.Context, c model.SiteConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.configPath, c)
}

// readJSON decodes path into dst. A missing file, or one that is not JSON at
// all, is replaced with def. Any other failure is returned and the file is
// left alone.
func (s *Store) readJSON(path string, dst any, def any) error {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		err = json.Unmarshal(data, dst)
		if err == nil {
			return nil
		}
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
		s.log.Warn("resetting unparsable data file", "path", path, "error", err)
	case !os.IsNotExist(err):
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := writeJSON(path, def); err != nil {
		return err
	}
	b, err := json.Marshal(def)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// writeJSON replaces path atomically with an indented JSON document.
func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
