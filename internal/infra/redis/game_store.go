package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MarianoIzarriaga/Trivia/internal/game"
)

// GameStore wraps an in-process session store with Redis liveness markers.
// Sessions themselves stay in memory (they hold mutexes and are lost on
// restart by design); the keys let operators see which rooms are mid-game
// and could back cross-instance routing later.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	inner  game.SessionStore
}

func NewGameStore(client *redis.Client, inner game.SessionStore, ttl time.Duration) *GameStore {
	return &GameStore{client: client, ttl: ttl, inner: inner}
}

func (s *GameStore) Put(roomID int64, session *game.Session) {
	s.inner.Put(roomID, session)
	_ = s.client.Set(context.Background(), s.key(roomID), "1", s.ttl).Err()
}

func (s *GameStore) Get(roomID int64) (*game.Session, bool) {
	return s.inner.Get(roomID)
}

func (s *GameStore) Delete(roomID int64) {
	s.inner.Delete(roomID)
	_ = s.client.Del(context.Background(), s.key(roomID)).Err()
}

func (s *GameStore) key(roomID int64) string {
	return "trivia:game:" + strconv.FormatInt(roomID, 10)
}
