package testutil

import (
	"context"
	"sync"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// StaticReader returns a fixed snapshot.
type StaticReader struct {
	Records []inventory.PresenceRecord

	// Err, when set, is returned as inventory.ErrCodeSourceUnavailable.
	Err error

	mu    sync.Mutex
	calls int
}

// NewStaticReader returns a reader serving records.
func NewStaticReader(records ...inventory.PresenceRecord) *StaticReader {
	return &StaticReader{Records: records}
}

// ReadSnapshot returns a copy of Records.
func (r *StaticReader) ReadSnapshot(ctx context.Context) ([]inventory.PresenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.Err != nil {
		return nil, inventory.SourceUnavailable("read snapshot", r.Err)
	}
	return append([]inventory.PresenceRecord(nil), r.Records...), nil
}

// Calls returns how many times ReadSnapshot ran.
func (r *StaticReader) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Message is one notification captured by RecordingSink.
type Message struct {
	Subject string
	Body    string
}

// RecordingSink captures every message it is asked to send.
type RecordingSink struct {
	// Err, when set, fails every Send with inventory.ErrCodeDeliveryFailed.
	Err error

	mu       sync.Mutex
	messages []Message
}

// Send records the message, or fails if Err is set.
func (s *RecordingSink) Send(ctx context.Context, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return inventory.DeliveryFailed("send report", s.Err)
	}
	s.messages = append(s.messages, Message{Subject: subject, Body: body})
	return nil
}

// Messages returns the captured messages in send order.
func (s *RecordingSink) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Record builds a presence record.
func Record(title, hostID, hostName string) inventory.PresenceRecord {
	return inventory.PresenceRecord{
		Title: inventory.Title(title),
		Host:  inventory.HostRef{ID: hostID, Name: hostName},
	}
}
