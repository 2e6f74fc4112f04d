package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

// ResultStore persists final game outcomes. A unique index on room_id plus
// ON CONFLICT DO NOTHING keeps finalize idempotent even under concurrent calls.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Save(ctx context.Context, record domain.ResultRecord) error {
	scores, err := json.Marshal(record.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	row := &GameResult{
		RoomID:     record.RoomID,
		Winner:     record.Winner,
		ScoresJSON: string(scores),
		FinishedAt: record.FinishedAt,
	}
	_, err = s.db.NewInsert().Model(row).
		On("CONFLICT (room_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) ByRoom(ctx context.Context, roomID int64) (domain.ResultRecord, error) {
	row := new(GameResult)
	err := s.db.NewSelect().Model(row).Where("room_id = ?", roomID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ResultRecord{}, domain.ErrResultsNotFound
	}
	if err != nil {
		return domain.ResultRecord{}, fmt.Errorf("select result: %w", err)
	}

	scores := make(map[string]int)
	if err := json.Unmarshal([]byte(row.ScoresJSON), &scores); err != nil {
		return domain.ResultRecord{}, fmt.Errorf("unmarshal scores: %w", err)
	}
	return domain.ResultRecord{
		ID:         row.ID,
		RoomID:     row.RoomID,
		Winner:     row.Winner,
		Scores:     scores,
		FinishedAt: row.FinishedAt,
	}, nil
}
