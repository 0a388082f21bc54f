package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const documentsFile = "documents.json"

// FileStore implements Store using a single JSON file in dataDir
type FileStore struct {
	dataDir string
	data    map[string]map[string]json.RawMessage
	mutex   sync.RWMutex
}

// NewFileStore creates a file-based store, loading existing documents from dataDir
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{
		dataDir: dataDir,
		data:    make(map[string]map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := checkKey(collection, id); err != nil {
		return nil, err
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (s *FileStore) Set(ctx context.Context, collection, id string, data []byte) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	if !json.Valid(data) {
		return ErrInvalidDocument
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.data[collection]
	if !ok {
		c = make(map[string]json.RawMessage)
		s.data[collection] = c
	}
	prev, existed := c[id]
	c[id] = append(json.RawMessage(nil), data...)

	if err := s.save(); err != nil {
		if existed {
			c[id] = prev
		} else {
			delete(c, id)
		}
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev, existed := s.data[collection][id]
	if !existed {
		return nil
	}
	delete(s.data[collection], id)

	if err := s.save(); err != nil {
		s.data[collection][id] = prev
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// load reads documents from file
func (s *FileStore) load() error {
	filePath := filepath.Join(s.dataDir, documentsFile)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}

// save writes documents to file atomically
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(s.dataDir, documentsFile+".tmp")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(s.dataDir, documentsFile)
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
