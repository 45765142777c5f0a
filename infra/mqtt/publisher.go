package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/gridfeed/core/model"
	coremqtt "github.com/kilianp07/gridfeed/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MemoryPublisher keeps published records in memory. It is used by tests
// and by dry runs of the CLI.
type MemoryPublisher struct {
	mu       sync.Mutex
	Messages map[string][]model.Record
	FailKeys map[string]bool
	closed   bool
}

// NewMemoryPublisher creates a new MemoryPublisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		Messages: make(map[string][]model.Record),
		FailKeys: make(map[string]bool),
	}
}

// Publish records every message under its topic, failing on configured keys.
func (m *MemoryPublisher) Publish(_ context.Context, kind model.Kind, recs []model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return coremqtt.ErrNotConnected
	}
	for _, r := range recs {
		if m.FailKeys[r.RecordKey()] {
			return fmt.Errorf("publish failed for %s", r.RecordKey())
		}
		topic := Topic(DefaultTopicPrefix, kind, r.RecordKey())
		m.Messages[topic] = append(m.Messages[topic], r)
	}
	return nil
}

// Count returns the number of messages published to topic.
func (m *MemoryPublisher) Count(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages[topic])
}

// Close marks the publisher closed.
func (m *MemoryPublisher) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

var _ Publisher = (*MemoryPublisher)(nil)
