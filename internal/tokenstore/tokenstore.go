// Package tokenstore persists the session token between client runs.
package tokenstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the fixed name of the persisted token under the state dir.
const FileName = "token"

// Store loads, saves and clears the single persisted token.
// An absent token is reported as "" with a nil error.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// DefaultDir returns the client state directory.
func DefaultDir() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, "staffdesk")
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "staffdesk")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "staffdesk")
}

type tokenFile struct {
	Token string `json:"token"`
}

// File keeps the token as a small JSON document on disk.
type File struct {
	dir string
}

var _ Store = (*File)(nil)

// NewFile returns a file store rooted at dir (DefaultDir when empty).
func NewFile(dir string) *File {
	if dir == "" {
		dir = DefaultDir()
	}
	return &File{dir: dir}
}

// Path is the location of the token file.
func (f *File) Path() string { return filepath.Join(f.dir, FileName) }

func (f *File) Load() (string, error) {
	b, err := os.ReadFile(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	return tf.Token, nil
}

func (f *File) Save(token string) error {
	if token == "" {
		return f.Clear()
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return err
	}
	fh, err := os.OpenFile(f.Path(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer fh.Close()
	enc := json.NewEncoder(fh)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{Token: token})
}

func (f *File) Clear() error {
	err := os.Remove(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Memory is an in-process Store.
type Memory struct {
	mu    sync.Mutex
	token string
}

var _ Store = (*Memory)(nil)

// NewMemory returns a memory store seeded with token.
func NewMemory(token string) *Memory { return &Memory{token: token} }

func (m *Memory) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *Memory) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear() error { return m.Save("") }
