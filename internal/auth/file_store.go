package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"gopkg.in/yaml.v3"
)

type credentialsFile struct {
	Sessions map[string]string `yaml:"sessions"`
}

// FileStore persists sessions in a YAML file readable only by the owner.
type FileStore struct {
	path  string
	mutex sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultCredentialsPath returns ~/.strapi/credentials.yml.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, ".strapi", "credentials.yml"), nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	file, err := s.load()
	if err != nil {
		return "", err
	}

	value, ok := file.Sessions[key]
	if !ok {
		return "", ErrSessionNotFound
	}

	return value, nil
}

// Set stores value under key.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	file.Sessions[key] = value

	return s.save(file)
}

// Remove deletes key.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := file.Sessions[key]; !ok {
		return nil
	}

	delete(file.Sessions, key)

	return s.save(file)
}

func (s *FileStore) load() (*credentialsFile, error) {
	file := &credentialsFile{Sessions: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return file, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	err = yaml.Unmarshal(data, file)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	if file.Sessions == nil {
		file.Sessions = map[string]string{}
	}

	return file, nil
}

func (s *FileStore) save(file *credentialsFile) error {
	err := os.MkdirAll(filepath.Dir(s.path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding credentials file: %w", err)
	}

	err = os.WriteFile(s.path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}

	return nil
}
