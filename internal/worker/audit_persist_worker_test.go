package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyboard/internal/logging"
	"studyboard/internal/model"
)

type memStore struct {
	events []model.AuditEvent
	err    error
}

func (m *memStore) Create(_ context.Context, event *model.AuditEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *event)
	return nil
}

type recordingAcker struct {
	acked  bool
	nacked bool
}

func (r *recordingAcker) Ack(bool) error {
	r.acked = true
	return nil
}

func (r *recordingAcker) Nack(bool, bool) error {
	r.nacked = true
	return nil
}

func TestHandle_PersistsAndAcks(t *testing.T) {
	store := &memStore{}
	w := NewAuditPersistWorker(nil, store, "q", logging.Discard())
	d := &recordingAcker{}

	w.handle(context.Background(), []byte(`{"id":99,"type":"post.created","resource":"post","resource_id":4}`), d)

	require.Len(t, store.events, 1)
	assert.Equal(t, model.AuditPostCreated, store.events[0].Type)
	assert.Equal(t, uint(4), store.events[0].ResourceID)
	assert.Zero(t, store.events[0].ID)
	assert.True(t, d.acked)
	assert.False(t, d.nacked)
}

func TestHandle_BadPayloadIsDropped(t *testing.T) {
	store := &memStore{}
	w := NewAuditPersistWorker(nil, store, "q", logging.Discard())
	d := &recordingAcker{}

	w.handle(context.Background(), []byte("nope"), d)

	assert.Empty(t, store.events)
	assert.True(t, d.nacked)
}

func TestHandle_StoreFailureNacks(t *testing.T) {
	store := &memStore{err: errors.New("db down")}
	w := NewAuditPersistWorker(nil, store, "q", logging.Discard())
	d := &recordingAcker{}

	w.handle(context.Background(), []byte(`{"type":"auth.login"}`), d)

	assert.True(t, d.nacked)
	assert.False(t, d.acked)
}

func TestClose_WithoutStart(t *testing.T) {
	w := NewAuditPersistWorker(nil, &memStore{}, "q", logging.Discard())
	w.Close()
}
