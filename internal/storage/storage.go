package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"wedding-guests/internal/models"
)

// DefaultKey is the slot the guest list snapshot is stored under
const DefaultKey = "guests"

// ErrNoSnapshot is returned by Load when nothing has been saved yet
var ErrNoSnapshot = errors.New("no stored snapshot")

// Backend persists the whole guest list as one snapshot
type Backend interface {
	Load() ([]models.Guest, error)
	Save(guests []models.Guest) error
}

// ReadError reports a snapshot that exists but does not match the current
// guest shape.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read snapshot %q: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func encode(guests []models.Guest) ([]byte, error) {
	if guests == nil {
		guests = []models.Guest{}
	}
	data, err := json.MarshalIndent(guests, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}
	return data, nil
}

// decode parses a snapshot strictly: unknown fields, trailing data and guests
// without an id make the whole snapshot invalid.
func decode(key string, data []byte) ([]models.Guest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoSnapshot
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var guests []models.Guest
	if err := dec.Decode(&guests); err != nil {
		return nil, &ReadError{Key: key, Err: fmt.Errorf("failed to unmarshal data: %w", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ReadError{Key: key, Err: errors.New("unexpected data after guest list")}
	}
	if guests == nil {
		return nil, &ReadError{Key: key, Err: errors.New("snapshot is not a list")}
	}
	for i, g := range guests {
		if g.ID == "" {
			return nil, &ReadError{Key: key, Err: fmt.Errorf("guest %d has no id", i)}
		}
	}
	return guests, nil
}
