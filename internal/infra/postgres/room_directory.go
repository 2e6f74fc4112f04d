package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength      = 6
	defaultCapacity = 4
)

// RoomDirectory is the bun-backed room store.
type RoomDirectory struct {
	db *bun.DB
}

func NewRoomDirectory(db *bun.DB) *RoomDirectory {
	return &RoomDirectory{db: db}
}

func (d *RoomDirectory) Create(ctx context.Context, creatorName string) (domain.Room, error) {
	creatorName = strings.TrimSpace(creatorName)
	if creatorName == "" {
		return domain.Room{}, domain.ErrEmptyName
	}

	var created Room
	err := d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		code, err := d.generateCode(ctx, tx)
		if err != nil {
			return err
		}

		room := &Room{
			Code:        code,
			Description: "Room created by " + creatorName,
			Capacity:    defaultCapacity,
			CreatedAt:   time.Now(),
		}
		if _, err := tx.NewInsert().Model(room).Exec(ctx); err != nil {
			return fmt.Errorf("insert room: %w", err)
		}

		creator := &Player{Name: creatorName, RoomID: room.ID}
		if _, err := tx.NewInsert().Model(creator).Exec(ctx); err != nil {
			return fmt.Errorf("insert creator: %w", err)
		}

		room.CreatorID = creator.ID
		if _, err := tx.NewUpdate().Model(room).Column("creator_id").WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("set creator: %w", err)
		}

		room.Players = []*Player{creator}
		created = *room
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}
	return toDomainRoom(&created), nil
}

func (d *RoomDirectory) Join(ctx context.Context, code, playerName string) (domain.Room, error) {
	playerName = strings.TrimSpace(playerName)
	if code == "" || playerName == "" {
		return domain.Room{}, domain.ErrEmptyName
	}

	var joined Room
	err := d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		room := new(Room)
		err := tx.NewSelect().Model(room).
			Relation("Players").
			Where("code = ?", code).
			For("UPDATE OF r").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRoomNotFound
		}
		if err != nil {
			return fmt.Errorf("select room: %w", err)
		}
		if len(room.Players) >= room.Capacity {
			return domain.ErrRoomFull
		}
		for _, p := range room.Players {
			if p.Name == playerName {
				return domain.ErrDuplicateName
			}
		}

		player := &Player{Name: playerName, RoomID: room.ID}
		if _, err := tx.NewInsert().Model(player).Exec(ctx); err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		room.Players = append(room.Players, player)
		joined = *room
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}
	return toDomainRoom(&joined), nil
}

func (d *RoomDirectory) Leave(ctx context.Context, playerName string, roomID int64) error {
	if strings.TrimSpace(playerName) == "" {
		return domain.ErrEmptyName
	}

	return d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		room := new(Room)
		err := tx.NewSelect().Model(room).
			Relation("Players").
			Where("r.id = ?", roomID).
			For("UPDATE OF r").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRoomNotFound
		}
		if err != nil {
			return fmt.Errorf("select room: %w", err)
		}

		var leaving *Player
		remaining := make([]*Player, 0, len(room.Players))
		for _, p := range room.Players {
			if p.Name == playerName && leaving == nil {
				leaving = p
				continue
			}
			remaining = append(remaining, p)
		}
		if leaving == nil {
			return domain.ErrPlayerNotFound
		}

		if _, err := tx.NewDelete().Model(leaving).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("delete player: %w", err)
		}

		if len(remaining) == 0 {
			if _, err := tx.NewDelete().Model(room).WherePK().Exec(ctx); err != nil {
				return fmt.Errorf("delete room: %w", err)
			}
			return nil
		}
		if room.CreatorID == leaving.ID {
			room.CreatorID = remaining[0].ID
			if _, err := tx.NewUpdate().Model(room).Column("creator_id").WherePK().Exec(ctx); err != nil {
				return fmt.Errorf("reassign creator: %w", err)
			}
		}
		return nil
	})
}

func (d *RoomDirectory) ByID(ctx context.Context, roomID int64) (domain.Room, error) {
	room := new(Room)
	err := d.db.NewSelect().Model(room).
		Relation("Players").
		Where("r.id = ?", roomID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("select room: %w", err)
	}
	return toDomainRoom(room), nil
}

func (d *RoomDirectory) ByCode(ctx context.Context, code string) (domain.Room, error) {
	room := new(Room)
	err := d.db.NewSelect().Model(room).
		Relation("Players").
		Where("code = ?", code).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("select room: %w", err)
	}
	return toDomainRoom(room), nil
}

func (d *RoomDirectory) ListJoinable(ctx context.Context) ([]domain.Room, error) {
	var rooms []*Room
	err := d.db.NewSelect().Model(&rooms).
		Relation("Players").
		Where("(SELECT count(*) FROM players p WHERE p.room_id = r.id) < r.capacity").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select rooms: %w", err)
	}
	joinable := make([]domain.Room, 0, len(rooms))
	for _, room := range rooms {
		joinable = append(joinable, toDomainRoom(room))
	}
	return joinable, nil
}

// generateCode draws candidate codes until one is free. The top-level rand
// functions are safe for concurrent Create calls.
func (d *RoomDirectory) generateCode(ctx context.Context, tx bun.Tx) (string, error) {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(b)
		exists, err := tx.NewSelect().Model((*Room)(nil)).Where("code = ?", code).Exists(ctx)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
}

func toDomainRoom(room *Room) domain.Room {
	players := make([]domain.Player, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, domain.Player{ID: p.ID, Name: p.Name, RoomID: p.RoomID})
	}
	return domain.Room{
		ID:          room.ID,
		Code:        room.Code,
		Description: room.Description,
		Capacity:    room.Capacity,
		CreatorID:   room.CreatorID,
		Players:     players,
		CreatedAt:   room.CreatedAt,
	}
}
