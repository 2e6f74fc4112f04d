package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

// RoomDirectory is the consumed contract of the persistent room store. The
// engine only reads rosters; capacity and name uniqueness are enforced by
// the directory itself.
type RoomDirectory interface {
	Create(ctx context.Context, creatorName string) (domain.Room, error)
	Join(ctx context.Context, code, playerName string) (domain.Room, error)
	Leave(ctx context.Context, playerName string, roomID int64) error
	ByID(ctx context.Context, roomID int64) (domain.Room, error)
	ByCode(ctx context.Context, code string) (domain.Room, error)
	ListJoinable(ctx context.Context) ([]domain.Room, error)
}

// QuestionBank is the consumed contract of the persistent question store.
type QuestionBank interface {
	// Draw returns up to n questions in randomized order, answers included.
	Draw(ctx context.Context, n int) ([]domain.Question, error)
	// Validate reports whether the answer is the correct one for the
	// question. Unknown pairs are simply incorrect, never an error.
	Validate(ctx context.Context, questionID, answerID int64) (bool, error)
}

// ResultStore persists final game outcomes.
type ResultStore interface {
	Save(ctx context.Context, record domain.ResultRecord) error
	// ByRoom returns domain.ErrResultsNotFound when no record exists.
	ByRoom(ctx context.Context, roomID int64) (domain.ResultRecord, error)
}

// Engine drives game sessions: start, answer, advance, snapshot, finalize.
type Engine struct {
	store   SessionStore
	rooms   RoomDirectory
	bank    QuestionBank
	results ResultStore

	questionCount int
	points        int
	now           func() time.Time
}

func NewEngine(store SessionStore, rooms RoomDirectory, bank QuestionBank, results ResultStore, questionCount, points int) *Engine {
	return &Engine{
		store:         store,
		rooms:         rooms,
		bank:          bank,
		results:       results,
		questionCount: questionCount,
		points:        points,
		now:           time.Now,
	}
}

// Start draws a fresh question set and seeds score and progress for every
// current roster member. Any prior session for the room is discarded. The
// first question is returned synchronously; later questions go through
// CurrentQuestion and Advance.
func (e *Engine) Start(ctx context.Context, roomID int64) (*domain.Question, error) {
	room, err := e.rooms.ByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(room.Players) < 2 {
		return nil, domain.ErrNotEnoughPlayers
	}

	questions, err := e.bank.Draw(ctx, e.questionCount)
	if err != nil {
		return nil, fmt.Errorf("draw questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}

	players := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, p.Name)
	}

	session := NewSession(roomID, questions, players)
	e.store.Put(roomID, session)

	first := questions[0]
	return &first, nil
}

// CurrentQuestion returns the question at the player's own progress index,
// or nil when the player has finished or no session exists.
func (e *Engine) CurrentQuestion(roomID int64, player string) *domain.Question {
	session, ok := e.store.Get(roomID)
	if !ok {
		return nil
	}
	return session.QuestionFor(player)
}

// SubmitAnswer validates the answer against the question bank and awards
// points on a correct one. The answer is validated before the session lock
// is taken so no I/O happens inside the critical section. Progress is not
// advanced here; that is a separate explicit action.
func (e *Engine) SubmitAnswer(ctx context.Context, roomID, questionID, answerID int64, player string) (bool, error) {
	session, ok := e.store.Get(roomID)
	if !ok {
		return false, domain.ErrNoActiveSession
	}
	if !session.HasPlayer(player) {
		return false, domain.ErrPlayerNotInSession
	}

	correct, err := e.bank.Validate(ctx, questionID, answerID)
	if err != nil {
		return false, fmt.Errorf("validate answer: %w", err)
	}
	if !correct {
		return false, nil
	}
	if err := session.Award(player, e.points); err != nil {
		return false, err
	}
	return true, nil
}

// Advance moves the player to their next question. The second return is
// true when the player has exhausted the sequence.
func (e *Engine) Advance(ctx context.Context, roomID int64, player string) (*domain.Question, bool, error) {
	session, ok := e.store.Get(roomID)
	if !ok {
		return nil, false, domain.ErrNoActiveSession
	}
	next, done, _ := session.Advance(player)
	return next, done, nil
}

// Snapshot builds the game projection for polling and streaming clients.
// The global question number is derived as the minimum progress across
// players, 1-based for display; player gets their own question attached
// when a name is given.
func (e *Engine) Snapshot(roomID int64, player string) (*domain.GameSnapshot, error) {
	session, ok := e.store.Get(roomID)
	if !ok {
		return nil, domain.ErrNoActiveSession
	}
	started, terminated, total, scores, progress := session.Snapshot()

	minIdx := total
	for name := range scores {
		if progress[name] < minIdx {
			minIdx = progress[name]
		}
	}
	if minIdx >= total {
		minIdx = total - 1
	}

	snap := &domain.GameSnapshot{
		Started:        started,
		Terminated:     terminated,
		QuestionNumber: minIdx + 1,
		TotalQuestions: total,
		Scores:         scores,
		Progress:       progress,
	}
	if player != "" {
		snap.PlayerQuestion = session.QuestionFor(player)
		// Omitted once the viewer exhausts the sequence; the 1-based
		// display number never exceeds the question count.
		if idx, ok := progress[player]; ok && idx < total {
			snap.PlayerQuestionN = idx + 1
		}
	}
	return snap, nil
}

// Finalize marks the session terminated, persists the result record once,
// and evicts the session. Calling it again, or after the session is gone,
// answers from the persisted record so results stay reachable.
func (e *Engine) Finalize(ctx context.Context, roomID int64) (string, error) {
	session, ok := e.store.Get(roomID)
	if !ok {
		record, err := e.results.ByRoom(ctx, roomID)
		if err != nil {
			return "", domain.ErrNoActiveSession
		}
		return finalMessage(record.Winner, record.Scores[record.Winner]), nil
	}

	session.Terminate()
	winner, score := session.Winner()

	if _, err := e.results.ByRoom(ctx, roomID); errors.Is(err, domain.ErrResultsNotFound) {
		_, _, _, scores, _ := session.Snapshot()
		record := domain.ResultRecord{
			RoomID:     roomID,
			Winner:     winner,
			Scores:     scores,
			FinishedAt: e.now(),
		}
		if err := e.results.Save(ctx, record); err != nil {
			return "", fmt.Errorf("save result: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("lookup result: %w", err)
	}

	e.store.Delete(roomID)
	return finalMessage(winner, score), nil
}

// Results serves final scores from the live session when it is terminated,
// falling back to the persisted record once the session has been evicted.
func (e *Engine) Results(ctx context.Context, roomID int64) (*domain.GameResults, error) {
	if session, ok := e.store.Get(roomID); ok {
		_, terminated, _, _, _ := session.Snapshot()
		if !terminated {
			return nil, domain.ErrResultsNotFound
		}
		if _, err := e.Finalize(ctx, roomID); err != nil {
			return nil, err
		}
	}

	record, err := e.results.ByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &domain.GameResults{Winner: record.Winner, FinalScores: record.Scores}, nil
}

func finalMessage(winner string, score int) string {
	return fmt.Sprintf("Game over. Winner: %s with %d points.", winner, score)
}
