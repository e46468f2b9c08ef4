package storage

import (
	"sync"

	"wedding-guests/internal/models"
)

// Memory holds the encoded snapshot in process memory. It goes through the
// same encoding as the durable backends, so reloads behave identically.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith seeds the backend with a raw snapshot
func NewMemoryWith(raw []byte) *Memory {
	return &Memory{data: append([]byte(nil), raw...)}
}

func (m *Memory) Save(guests []models.Guest) error {
	data, err := encode(guests)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load() ([]models.Guest, error) {
	m.mu.Lock()
	data := m.data
	m.mu.Unlock()
	if data == nil {
		return nil, ErrNoSnapshot
	}
	return decode(DefaultKey, data)
}

// Raw returns the last saved snapshot
func (m *Memory) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}
