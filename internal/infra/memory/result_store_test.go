package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

func TestResultStoreKeepsFirstRecord(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	first := domain.ResultRecord{
		RoomID:     7,
		Winner:     "Ana",
		Scores:     map[string]int{"Ana": 30, "Luis": 10},
		FinishedAt: time.Now(),
	}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	// A second save for the same room is ignored.
	if err := store.Save(ctx, domain.ResultRecord{RoomID: 7, Winner: "Luis"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	record, err := store.ByRoom(ctx, 7)
	if err != nil {
		t.Fatalf("by room: %v", err)
	}
	if record.Winner != "Ana" || record.Scores["Ana"] != 30 {
		t.Fatalf("first record must win, got %+v", record)
	}

	if _, err := store.ByRoom(ctx, 8); !errors.Is(err, domain.ErrResultsNotFound) {
		t.Fatalf("expected ErrResultsNotFound, got %v", err)
	}
}
