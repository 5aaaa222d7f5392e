package services

import (
	"fmt"
	"path/filepath"
	"sync"
)

// MockStorageService is a mock implementation of StorageInterface for testing
type MockStorageService struct {
	mu             sync.RWMutex
	authorizedKeys map[string]bool // keys handed out by GetUploadURL
	counter        int
}

// NewMockStorageService creates a new mock storage service
func NewMockStorageService() *MockStorageService {
	return &MockStorageService{
		authorizedKeys: make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global storage service instance
func (m *MockStorageService) SetAsMockForTesting() {
	SetStorageService(m)
}

// GetUploadURL simulates authorizing an upload
func (m *MockStorageService) GetUploadURL(fileName, mimeType, scopeID string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	key := fmt.Sprintf("attachments/%s/mock-%d%s", scopeID, m.counter, filepath.Ext(fileName))
	m.authorizedKeys[key] = true

	return fmt.Sprintf("https://mock-bucket.example.com/%s?signed=1", key), key, nil
}

// GetDownloadURL simulates generating a presigned GET URL
func (m *MockStorageService) GetDownloadURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return fmt.Sprintf("https://mock-bucket.example.com/%s?signed=1", key), nil
}

// DeleteFile simulates deleting an object
func (m *MockStorageService) DeleteFile(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.authorizedKeys, key)
	return nil
}

// WasAuthorized reports whether GetUploadURL handed out the given key
func (m *MockStorageService) WasAuthorized(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.authorizedKeys[key]
}
