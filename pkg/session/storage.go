package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/studentbudget/backend/pkg/client"
)

// Credentials is the persisted token/user pair. The two are written and
// cleared together, a token without a user never hits storage.
type Credentials struct {
	Token string       `json:"token"`
	User  *client.User `json:"user"`
}

// Storage persists credentials across program runs.
type Storage interface {
	// Read returns the stored credentials. A store that holds nothing
	// returns zero Credentials and no error.
	Read() (Credentials, error)

	// Write replaces the stored credentials.
	Write(Credentials) error

	// Clear removes the stored credentials.
	Clear() error
}

// FileStorage keeps credentials in a JSON file, by default under the
// user's configuration directory.
type FileStorage struct {
	Path string
}

// NewFileStorage returns file-backed storage for the named application.
func NewFileStorage(appName string) (*FileStorage, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	return &FileStorage{Path: filepath.Join(dir, appName, "session.json")}, nil
}

func (s *FileStorage) Read() (Credentials, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, nil
		}
		return Credentials{}, err
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		// A corrupt session file is treated like an empty one
		return Credentials{}, nil
	}

	return creds, nil
}

func (s *FileStorage) Write(creds Credentials) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}

	// The file holds a credential, keep it private to the user
	return os.WriteFile(s.Path, raw, 0o600)
}

func (s *FileStorage) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryStorage keeps credentials in memory. It is used in tests and for
// one-off invocations that must not touch the file system.
type MemoryStorage struct {
	creds Credentials
	set   bool
}

func (s *MemoryStorage) Read() (Credentials, error) {
	if !s.set {
		return Credentials{}, nil
	}
	return s.creds, nil
}

func (s *MemoryStorage) Write(creds Credentials) error {
	s.creds = creds
	s.set = true
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.creds = Credentials{}
	s.set = false
	return nil
}
