package memory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength      = 6
	defaultCapacity = 4
)

// RoomDirectory is the in-memory room store used by tests and the
// no-Postgres demo mode.
type RoomDirectory struct {
	mu     sync.RWMutex
	rooms  map[int64]*domain.Room
	byCode map[string]int64
	nextID int64
	rnd    *rand.Rand
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{
		rooms:  make(map[int64]*domain.Room),
		byCode: make(map[string]int64),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (d *RoomDirectory) Create(ctx context.Context, creatorName string) (domain.Room, error) {
	creatorName = strings.TrimSpace(creatorName)
	if creatorName == "" {
		return domain.Room{}, domain.ErrEmptyName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	code := d.generateCodeLocked()
	d.nextID++
	roomID := d.nextID
	d.nextID++
	creator := domain.Player{ID: d.nextID, Name: creatorName, RoomID: roomID}

	room := &domain.Room{
		ID:          roomID,
		Code:        code,
		Description: "Room created by " + creatorName,
		Capacity:    defaultCapacity,
		CreatorID:   creator.ID,
		Players:     []domain.Player{creator},
		CreatedAt:   time.Now(),
	}
	d.rooms[roomID] = room
	d.byCode[code] = roomID
	return *room, nil
}

func (d *RoomDirectory) Join(ctx context.Context, code, playerName string) (domain.Room, error) {
	playerName = strings.TrimSpace(playerName)
	if code == "" || playerName == "" {
		return domain.Room{}, domain.ErrEmptyName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	roomID, ok := d.byCode[code]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	room := d.rooms[roomID]
	if len(room.Players) >= room.Capacity {
		return domain.Room{}, domain.ErrRoomFull
	}
	if room.HasPlayer(playerName) {
		return domain.Room{}, domain.ErrDuplicateName
	}

	d.nextID++
	room.Players = append(room.Players, domain.Player{ID: d.nextID, Name: playerName, RoomID: roomID})
	return *room, nil
}

func (d *RoomDirectory) Leave(ctx context.Context, playerName string, roomID int64) error {
	if strings.TrimSpace(playerName) == "" {
		return domain.ErrEmptyName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return domain.ErrRoomNotFound
	}

	idx := -1
	for i, p := range room.Players {
		if p.Name == playerName {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.ErrPlayerNotFound
	}

	leaving := room.Players[idx]
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

	if len(room.Players) == 0 {
		delete(d.rooms, roomID)
		delete(d.byCode, room.Code)
		return nil
	}
	if room.CreatorID == leaving.ID {
		room.CreatorID = room.Players[0].ID
	}
	return nil
}

func (d *RoomDirectory) ByID(ctx context.Context, roomID int64) (domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return *room, nil
}

func (d *RoomDirectory) ByCode(ctx context.Context, code string) (domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	roomID, ok := d.byCode[code]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return *d.rooms[roomID], nil
}

func (d *RoomDirectory) ListJoinable(ctx context.Context) ([]domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	joinable := make([]domain.Room, 0, len(d.rooms))
	for _, room := range d.rooms {
		if len(room.Players) < room.Capacity {
			joinable = append(joinable, *room)
		}
	}
	sort.Slice(joinable, func(i, j int) bool {
		return joinable[i].CreatedAt.After(joinable[j].CreatedAt)
	})
	return joinable, nil
}

func (d *RoomDirectory) generateCodeLocked() string {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[d.rnd.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, taken := d.byCode[code]; !taken {
			return code
		}
	}
}
