package memory

import (
	"context"
	"sync"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

// ResultStore keeps result records in memory. At most one record per room;
// saving a second one for the same room is a no-op, matching the unique
// index the Postgres store relies on.
type ResultStore struct {
	mu      sync.RWMutex
	records map[int64]domain.ResultRecord
	nextID  int64
}

func NewResultStore() *ResultStore {
	return &ResultStore{records: make(map[int64]domain.ResultRecord)}
}

func (s *ResultStore) Save(ctx context.Context, record domain.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.RoomID]; exists {
		return nil
	}
	s.nextID++
	record.ID = s.nextID
	s.records[record.RoomID] = record
	return nil
}

func (s *ResultStore) ByRoom(ctx context.Context, roomID int64) (domain.ResultRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[roomID]
	if !ok {
		return domain.ResultRecord{}, domain.ErrResultsNotFound
	}
	return record, nil
}
