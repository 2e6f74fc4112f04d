package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

func TestRoomLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := NewRoomDirectory()

	room, err := dir.Create(ctx, "Ana")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(room.Code) != 6 {
		t.Fatalf("expected 6-char join code, got %q", room.Code)
	}
	if room.CreatorName() != "Ana" {
		t.Fatalf("creator must be on the roster, got %q", room.CreatorName())
	}

	if _, err := dir.Join(ctx, room.Code, "Luis"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := dir.Join(ctx, room.Code, "Luis"); !errors.Is(err, domain.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := dir.Join(ctx, "ZZZZZZ", "Eva"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}

	// Fill to capacity (4): Ana, Luis + 2 more.
	_, _ = dir.Join(ctx, room.Code, "Eva")
	_, _ = dir.Join(ctx, room.Code, "Tom")
	if _, err := dir.Join(ctx, room.Code, "Late"); !errors.Is(err, domain.ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}

	joinable, err := dir.ListJoinable(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(joinable) != 0 {
		t.Fatalf("full room must not be joinable, got %d rooms", len(joinable))
	}
}

func TestLeaveReassignsCreatorAndDeletesEmptyRoom(t *testing.T) {
	ctx := context.Background()
	dir := NewRoomDirectory()

	room, _ := dir.Create(ctx, "Ana")
	_, _ = dir.Join(ctx, room.Code, "Luis")

	if err := dir.Leave(ctx, "Ana", room.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	updated, err := dir.ByID(ctx, room.ID)
	if err != nil {
		t.Fatalf("room should still exist: %v", err)
	}
	if updated.CreatorName() != "Luis" {
		t.Fatalf("creator must be reassigned to a remaining member, got %q", updated.CreatorName())
	}

	if err := dir.Leave(ctx, "Luis", room.ID); err != nil {
		t.Fatalf("leave last: %v", err)
	}
	if _, err := dir.ByID(ctx, room.ID); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("empty room must be deleted, got %v", err)
	}
	if _, err := dir.ByCode(ctx, room.Code); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("code of a deleted room must be free, got %v", err)
	}
}

func TestLeaveUnknownPlayer(t *testing.T) {
	ctx := context.Background()
	dir := NewRoomDirectory()
	room, _ := dir.Create(ctx, "Ana")

	if err := dir.Leave(ctx, "Ghost", room.ID); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if err := dir.Leave(ctx, "Ana", 999); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestCreateRequiresName(t *testing.T) {
	if _, err := NewRoomDirectory().Create(context.Background(), "  "); !errors.Is(err, domain.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}
