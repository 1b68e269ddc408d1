package config

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"renamer/internal/domain/model"
)

const appDir = "renamer"

// Journal records the last rename transaction so it can be rolled back by a
// later invocation. Only one cycle is kept.
type Journal struct {
	PlanID    string                   `json:"plan_id"`
	CreatedAt time.Time                `json:"created_at"`
	Entries   []*model.FileRenameEntry `json:"entries"`
}

type Store struct {
	dir string
}

func NewStore() Store { return Store{} }

// NewStoreAt pins the store to dir instead of the XDG location.
func NewStoreAt(dir string) Store { return Store{dir: dir} }

func (s Store) Dir() (string, error) {
	if s.dir != "" {
		return s.dir, nil
	}
	return Dir()
}

func (s Store) LoadWhitelist(ctx context.Context) ([]string, error) {
	_ = ctx
	dir, err := s.Dir()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, "whitelist"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = filepath.Clean(expandHome(line))
		if abs, err := filepath.Abs(line); err == nil {
			line = abs
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

var ErrNoJournal = errors.New("no rename journal found")

func (s Store) SaveJournal(ctx context.Context, j Journal) error {
	_ = ctx
	dir, err := s.Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}

	b, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "journal-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, "journal.json"))
}

func (s Store) LoadJournal(ctx context.Context) (Journal, error) {
	_ = ctx
	dir, err := s.Dir()
	if err != nil {
		return Journal{}, err
	}
	b, err := os.ReadFile(filepath.Join(dir, "journal.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return Journal{}, ErrNoJournal
		}
		return Journal{}, err
	}
	var j Journal
	if err := json.Unmarshal(b, &j); err != nil {
		return Journal{}, err
	}
	return j, nil
}

func (s Store) ClearJournal(ctx context.Context) error {
	_ = ctx
	dir, err := s.Dir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(dir, "journal.json"))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir is $XDG_CONFIG_HOME/renamer, falling back to ~/.config/renamer.
func Dir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDir), nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
