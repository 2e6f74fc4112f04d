package game

import (
	"sort"
	"sync"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

// Session is the live state of one in-progress game for one room. The
// question sequence is frozen at start; scores and per-player progress
// mutate under the session's own mutex. Critical sections stay free of I/O.
type Session struct {
	roomID    int64
	questions []domain.Question

	mu         sync.RWMutex
	started    bool
	terminated bool
	scores     map[string]int
	progress   map[string]int
}

// NewSession builds a running session for the given roster. Every player
// starts with score 0 and progress 0.
func NewSession(roomID int64, questions []domain.Question, players []string) *Session {
	s := &Session{
		roomID:    roomID,
		questions: questions,
		started:   true,
		scores:    make(map[string]int, len(players)),
		progress:  make(map[string]int, len(players)),
	}
	for _, name := range players {
		s.scores[name] = 0
		s.progress[name] = 0
	}
	return s
}

// RoomID returns the owning room key.
func (s *Session) RoomID() int64 { return s.roomID }

// TotalQuestions returns the length of the frozen question sequence.
func (s *Session) TotalQuestions() int { return len(s.questions) }

// QuestionFor returns the question at the player's progress index, or nil
// when the player has exhausted the sequence or is unknown.
func (s *Session) QuestionFor(player string) *domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.progress[player]
	if !ok || idx < 0 || idx >= len(s.questions) {
		return nil
	}
	q := s.questions[idx]
	return &q
}

// ProgressOf returns the player's 0-based progress index.
func (s *Session) ProgressOf(player string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.progress[player]
	return idx, ok
}

// HasPlayer reports whether the player was seeded into the score map.
func (s *Session) HasPlayer(player string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.scores[player]
	return ok
}

// Award adds points to the player's score. It never advances progress.
func (s *Session) Award(player string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scores[player]; !ok {
		return domain.ErrPlayerNotInSession
	}
	s.scores[player] += points
	return nil
}

// Advance moves exactly this player forward by one question, initializing
// the progress entry if absent. It returns the next question for the player
// (nil when the sequence is exhausted) and whether every player has now
// reached the final question.
func (s *Session) Advance(player string) (next *domain.Question, done bool, terminated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.progress[player]
	if !ok {
		idx = 0
	}
	if idx < len(s.questions) {
		idx++
	}
	s.progress[player] = idx
	s.refreshTerminatedLocked()
	if idx >= len(s.questions) {
		return nil, true, s.terminated
	}
	q := s.questions[idx]
	return &q, false, s.terminated
}

// Snapshot returns the current flags, question count, and copies of the
// score and progress maps. Termination is re-evaluated lazily on every read.
func (s *Session) Snapshot() (started, terminated bool, total int, scores, progress map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTerminatedLocked()
	scores = make(map[string]int, len(s.scores))
	for name, score := range s.scores {
		scores[name] = score
	}
	progress = make(map[string]int, len(s.progress))
	for name, idx := range s.progress {
		progress[name] = idx
	}
	return s.started, s.terminated, len(s.questions), scores, progress
}

// Terminate marks the session finished regardless of progress.
func (s *Session) Terminate() {
	s.mu.Lock()
	s.terminated = true
	s.mu.Unlock()
}

// Winner returns the leading player and their score. Ties are broken
// alphabetically by player name so the result is deterministic.
func (s *Session) Winner() (string, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.scores))
	for name := range s.scores {
		names = append(names, name)
	}
	sort.Strings(names)
	winner, best := "", -1
	for _, name := range names {
		if s.scores[name] > best {
			winner, best = name, s.scores[name]
		}
	}
	return winner, best
}

// refreshTerminatedLocked upgrades the terminated flag once every scored
// player's progress has reached the last question. Callers hold s.mu.
func (s *Session) refreshTerminatedLocked() {
	if s.terminated || len(s.scores) == 0 || len(s.questions) == 0 {
		return
	}
	for name := range s.scores {
		if s.progress[name] < len(s.questions)-1 {
			return
		}
	}
	s.terminated = true
}
