package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MarianoIzarriaga/Trivia/internal/game"
)

func TestGameStoreSetsAndClearsLivenessKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewGameStore(client, game.NewStore(), time.Minute)

	session := game.NewSession(42, nil, []string{"Ana", "Luis"})
	store.Put(42, session)
	if !mr.Exists("trivia:game:42") {
		t.Fatalf("expected liveness key after Put")
	}
	if got, ok := store.Get(42); !ok || got != session {
		t.Fatalf("expected session from inner store")
	}

	store.Delete(42)
	if mr.Exists("trivia:game:42") {
		t.Fatalf("expected liveness key removed after Delete")
	}
	if _, ok := store.Get(42); ok {
		t.Fatalf("expected session removed")
	}
}
