package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

// countdown is the transient per-code timer entry. It self-deletes from the
// coordinator table when it reaches zero or is cancelled.
type countdown struct {
	value     int
	active    bool
	startedAt time.Time
	cancel    context.CancelFunc
}

// Coordinator delays game start until a fixed countdown elapses, then
// triggers the engine. At most one active countdown exists per room code;
// starting again restarts the countdown rather than stacking.
type Coordinator struct {
	engine   *Engine
	rooms    RoomDirectory
	logger   *zap.Logger
	start    int
	interval time.Duration

	mu      sync.Mutex
	entries map[string]*countdown
}

func NewCoordinator(engine *Engine, rooms RoomDirectory, logger *zap.Logger, start int, interval time.Duration) *Coordinator {
	return &Coordinator{
		engine:   engine,
		rooms:    rooms,
		logger:   logger,
		start:    start,
		interval: interval,
		entries:  make(map[string]*countdown),
	}
}

// Start installs a countdown for the room code and begins ticking once per
// interval. A prior countdown for the same code is cancelled first.
func (c *Coordinator) Start(ctx context.Context, code string) error {
	room, err := c.rooms.ByCode(ctx, code)
	if err != nil {
		return err
	}
	if len(room.Players) < 2 {
		return domain.ErrNotEnoughPlayers
	}

	// The tick loop outlives the request, so it runs on its own context.
	tickCtx, cancel := context.WithCancel(context.Background())
	entry := &countdown{
		value:     c.start,
		active:    true,
		startedAt: time.Now(),
		cancel:    cancel,
	}

	c.mu.Lock()
	if prior, ok := c.entries[code]; ok {
		prior.active = false
		prior.cancel()
	}
	c.entries[code] = entry
	c.mu.Unlock()

	go c.run(tickCtx, code, room.ID, entry)
	return nil
}

// Cancel deactivates the countdown for the code; the tick loop notices
// within one interval and cleans up without starting a game.
func (c *Coordinator) Cancel(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[code]; ok {
		entry.active = false
		entry.cancel()
	}
}

// Value returns the remaining seconds for an active countdown.
func (c *Coordinator) Value(code string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[code]
	if !ok || !entry.active {
		return 0, false
	}
	return entry.value, true
}

// run ticks the countdown down to zero, then starts the game. The entry is
// removed from the table on every exit path.
func (c *Coordinator) run(ctx context.Context, code string, roomID int64, entry *countdown) {
	defer c.remove(code, entry)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if !entry.active {
				c.mu.Unlock()
				return
			}
			entry.value--
			remaining := entry.value
			c.mu.Unlock()

			if remaining <= 0 {
				if _, err := c.engine.Start(context.Background(), roomID); err != nil {
					c.logger.Warn("countdown expired but game start failed",
						zap.String("code", code),
						zap.Int64("roomId", roomID),
						zap.Error(err),
					)
				}
				return
			}
		}
	}
}

// remove deletes the entry unless a restart already replaced it.
func (c *Coordinator) remove(code string, entry *countdown) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.entries[code]; ok && current == entry {
		delete(c.entries, code)
	}
}
