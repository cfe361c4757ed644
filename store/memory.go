package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrsingh-rishi/voice-scribe/model"
)

// MemoryStore is an in-process Store used when no Redis address is
// configured, and as the test double for the HTTP layer. Contents are
// lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]model.Transcription
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]model.Transcription),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, ownerID, text, mimeType string) (model.Transcription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := model.Transcription{
		ID:        uuid.NewString(),
		Text:      text,
		OwnerID:   ownerID,
		MimeType:  mimeType,
		CreatedAt: s.now().UTC(),
	}
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]model.Transcription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]model.Transcription, 0)
	for _, rec := range s.records {
		if rec.OwnerID == ownerID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *MemoryStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
