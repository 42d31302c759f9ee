package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/security"
	"go.uber.org/zap"
)

// FileStore is a file-backed Store. The whole keyspace lives in one JSON
// document that is loaded at open and rewritten atomically on change.
// Writes are debounced so bursts of Sets produce a single disk write.
type FileStore struct {
	data      map[string]json.RawMessage
	mu        sync.RWMutex
	path      string
	encryptor *security.Encryptor
	saveChan  chan struct{}
	closeChan chan struct{}
	closeOnce sync.Once
	saveDelay time.Duration
	wg        sync.WaitGroup
	logger    *zap.Logger
}

// NewFileStore opens (or creates) the store file at path. A non-empty
// encryptionKey must be exactly 32 bytes and enables AES-256-GCM
// encryption of the on-disk document.
func NewFileStore(path string, encryptionKey string, logger *zap.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store file path is required")
	}

	s := &FileStore{
		data:      make(map[string]json.RawMessage),
		path:      path,
		saveChan:  make(chan struct{}, 1),
		closeChan: make(chan struct{}),
		saveDelay: 500 * time.Millisecond,
		logger:    logger,
	}

	if encryptionKey != "" {
		enc, err := security.NewEncryptor([]byte(encryptionKey))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store encryption: %w", err)
		}
		s.encryptor = enc
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load store file: %w", err)
	}

	s.wg.Add(1)
	go s.saveWorker()

	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	if s.encryptor != nil {
		plain, err := s.encryptor.DecryptBytes(raw)
		if err != nil {
			return fmt.Errorf("failed to decrypt store file: %w", err)
		}
		raw = plain
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	return nil
}

// Get returns the stored value for key, or ErrNotFound
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set overwrites the value for key and schedules a save
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}

	stored := make(json.RawMessage, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.data[key] = stored
	s.mu.Unlock()

	s.requestSave()
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	s.requestSave()
	return nil
}

// Keys returns all keys with the given prefix, sorted
func (s *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close flushes pending writes and stops the save worker
func (s *FileStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeChan)
	})
	s.wg.Wait()
	return s.save()
}

func (s *FileStore) requestSave() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

func (s *FileStore) saveWorker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.saveChan:
			time.Sleep(s.saveDelay)
			if err := s.save(); err != nil {
				s.logger.Error("failed to persist store file",
					zap.Error(err),
					zap.String("path", s.path),
				)
			}
		case <-s.closeChan:
			return
		}
	}
}

// save writes the document atomically: marshal, write a temp file in the
// same directory, fsync, then rename over the target.
func (s *FileStore) save() error {
	s.mu.RLock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}

	if s.encryptor != nil {
		raw, err = s.encryptor.EncryptBytes(raw)
		if err != nil {
			return fmt.Errorf("failed to encrypt store document: %w", err)
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	return nil
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)
