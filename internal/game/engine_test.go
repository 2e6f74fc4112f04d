package game_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
	"github.com/MarianoIzarriaga/Trivia/internal/game"
	"github.com/MarianoIzarriaga/Trivia/internal/infra/memory"
)

// fixedBank serves questions in a fixed order so tests can assert on
// sequence positions.
type fixedBank struct {
	questions []domain.Question
}

func (b *fixedBank) Draw(ctx context.Context, n int) ([]domain.Question, error) {
	if n > len(b.questions) {
		n = len(b.questions)
	}
	return b.questions[:n], nil
}

func (b *fixedBank) Validate(ctx context.Context, questionID, answerID int64) (bool, error) {
	for _, q := range b.questions {
		if q.ID != questionID {
			continue
		}
		for _, a := range q.Answers {
			if a.ID == answerID {
				return a.IsCorrect, nil
			}
		}
	}
	return false, nil
}

func threeQuestions() []domain.Question {
	questions := make([]domain.Question, 0, 3)
	for i := int64(1); i <= 3; i++ {
		questions = append(questions, domain.Question{
			ID:   i,
			Text: fmt.Sprintf("Question %d", i),
			Answers: []domain.Answer{
				{ID: i*10 + 1, Text: "right", IsCorrect: true, QuestionID: i},
				{ID: i*10 + 2, Text: "wrong", QuestionID: i},
			},
		})
	}
	return questions
}

type fixture struct {
	engine  *game.Engine
	store   *game.Store
	rooms   *memory.RoomDirectory
	results *memory.ResultStore
	roomID  int64
}

// newFixture creates a room with the given players and an engine drawing
// three fixed questions worth 10 points each.
func newFixture(t *testing.T, players ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	rooms := memory.NewRoomDirectory()
	store := game.NewStore()
	results := memory.NewResultStore()
	engine := game.NewEngine(store, rooms, &fixedBank{questions: threeQuestions()}, results, 3, 10)

	room, err := rooms.Create(ctx, players[0])
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	for _, name := range players[1:] {
		if _, err := rooms.Join(ctx, room.Code, name); err != nil {
			t.Fatalf("join room: %v", err)
		}
	}
	return &fixture{engine: engine, store: store, rooms: rooms, results: results, roomID: room.ID}
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana")

	if _, err := f.engine.Start(ctx, f.roomID); !errors.Is(err, domain.ErrNotEnoughPlayers) {
		t.Fatalf("expected ErrNotEnoughPlayers with one player, got %v", err)
	}

	room, _ := f.rooms.ByID(ctx, f.roomID)
	if _, err := f.rooms.Join(ctx, room.Code, "Luis"); err != nil {
		t.Fatalf("join: %v", err)
	}
	first, err := f.engine.Start(ctx, f.roomID)
	if err != nil {
		t.Fatalf("start with two players: %v", err)
	}
	if first == nil || first.ID != 1 {
		t.Fatalf("expected first question synchronously, got %+v", first)
	}
}

func TestStartUnknownRoom(t *testing.T) {
	f := newFixture(t, "Ana", "Luis")
	if _, err := f.engine.Start(context.Background(), 999); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestStartFailsOnEmptyBank(t *testing.T) {
	ctx := context.Background()
	rooms := memory.NewRoomDirectory()
	engine := game.NewEngine(game.NewStore(), rooms, &fixedBank{}, memory.NewResultStore(), 3, 10)

	room, _ := rooms.Create(ctx, "Ana")
	_, _ = rooms.Join(ctx, room.Code, "Luis")

	if _, err := engine.Start(ctx, room.ID); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestAnswerAndAdvanceScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")

	if _, err := f.engine.Start(ctx, f.roomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	correct, err := f.engine.SubmitAnswer(ctx, f.roomID, 1, 11, "Ana")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !correct {
		t.Fatalf("expected correct answer")
	}

	next, done, err := f.engine.Advance(ctx, f.roomID, "Ana")
	if err != nil || done {
		t.Fatalf("advance: done=%v err=%v", done, err)
	}
	if next.ID != 2 {
		t.Fatalf("expected question 2 for Ana, got %d", next.ID)
	}

	snap, err := f.engine.Snapshot(f.roomID, "")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Terminated {
		t.Fatalf("game should not be terminated yet")
	}
	if snap.Scores["Ana"] != 10 || snap.Scores["Luis"] != 0 {
		t.Fatalf("expected scores Ana=10 Luis=0, got %v", snap.Scores)
	}
	if snap.Progress["Ana"] != 1 || snap.Progress["Luis"] != 0 {
		t.Fatalf("expected progress Ana=1 Luis=0, got %v", snap.Progress)
	}
}

func TestAdvanceWithoutAnswerIsTolerated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")
	_, _ = f.engine.Start(ctx, f.roomID)

	if _, _, err := f.engine.Advance(ctx, f.roomID, "Luis"); err != nil {
		t.Fatalf("advance without answering should succeed: %v", err)
	}
	snap, _ := f.engine.Snapshot(f.roomID, "")
	if snap.Scores["Luis"] != 0 {
		t.Fatalf("score should not change on advance, got %d", snap.Scores["Luis"])
	}
}

func TestUnknownAnswerPairIsIncorrectNotError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")
	_, _ = f.engine.Start(ctx, f.roomID)

	correct, err := f.engine.SubmitAnswer(ctx, f.roomID, 999, 999, "Ana")
	if err != nil {
		t.Fatalf("unknown pair must fail closed, got error %v", err)
	}
	if correct {
		t.Fatalf("unknown pair must be incorrect")
	}
}

func TestSubmitAnswerErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")

	if _, err := f.engine.SubmitAnswer(ctx, f.roomID, 1, 11, "Ana"); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession before start, got %v", err)
	}

	_, _ = f.engine.Start(ctx, f.roomID)
	if _, err := f.engine.SubmitAnswer(ctx, f.roomID, 1, 11, "Intruder"); !errors.Is(err, domain.ErrPlayerNotInSession) {
		t.Fatalf("expected ErrPlayerNotInSession, got %v", err)
	}
}

func TestTerminationOnlyWhenAllReachLastQuestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")
	_, _ = f.engine.Start(ctx, f.roomID)

	// Ana reaches the last question (index 2 of 3).
	_, _, _ = f.engine.Advance(ctx, f.roomID, "Ana")
	_, _, _ = f.engine.Advance(ctx, f.roomID, "Ana")

	snap, _ := f.engine.Snapshot(f.roomID, "")
	if snap.Terminated {
		t.Fatalf("only Ana reached the last question, should not be terminated")
	}

	_, _, _ = f.engine.Advance(ctx, f.roomID, "Luis")
	_, _, _ = f.engine.Advance(ctx, f.roomID, "Luis")

	snap, _ = f.engine.Snapshot(f.roomID, "")
	if !snap.Terminated {
		t.Fatalf("everyone reached the last question, expected terminated")
	}
}

func TestCurrentQuestionPerPlayer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")
	_, _ = f.engine.Start(ctx, f.roomID)

	// Ana advances past the end of the 3-question sequence.
	for i := 0; i < 3; i++ {
		_, _, _ = f.engine.Advance(ctx, f.roomID, "Ana")
	}
	_, _, _ = f.engine.Advance(ctx, f.roomID, "Luis")

	if q := f.engine.CurrentQuestion(f.roomID, "Ana"); q != nil {
		t.Fatalf("Ana exhausted the sequence, expected nil, got %+v", q)
	}
	q := f.engine.CurrentQuestion(f.roomID, "Luis")
	if q == nil || q.ID != 2 {
		t.Fatalf("expected second question for Luis, got %+v", q)
	}
}

func TestProgressBoundedAndMonotonic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")
	_, _ = f.engine.Start(ctx, f.roomID)

	last := 0
	for i := 0; i < 6; i++ {
		_, _, _ = f.engine.Advance(ctx, f.roomID, "Ana")
		snap, _ := f.engine.Snapshot(f.roomID, "")
		idx := snap.Progress["Ana"]
		if idx < last {
			t.Fatalf("progress decreased from %d to %d", last, idx)
		}
		if idx < 0 || idx > snap.TotalQuestions {
			t.Fatalf("progress %d out of [0,%d]", idx, snap.TotalQuestions)
		}
		last = idx
	}
	if last != 3 {
		t.Fatalf("progress must cap at total questions, got %d", last)
	}
}

func TestSnapshotViewerQuestionNumberStaysInRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")
	_, _ = f.engine.Start(ctx, f.roomID)

	snap, _ := f.engine.Snapshot(f.roomID, "Ana")
	if snap.PlayerQuestionN != 1 {
		t.Fatalf("expected question number 1 at start, got %d", snap.PlayerQuestionN)
	}

	for i := 0; i < 3; i++ {
		_, _, _ = f.engine.Advance(ctx, f.roomID, "Ana")
		snap, _ = f.engine.Snapshot(f.roomID, "Ana")
		if snap.PlayerQuestionN > snap.TotalQuestions {
			t.Fatalf("question number %d exceeds total %d", snap.PlayerQuestionN, snap.TotalQuestions)
		}
	}

	// Ana is done: no current question, no question number.
	if snap.PlayerQuestion != nil || snap.PlayerQuestionN != 0 {
		t.Fatalf("expected no viewer question after finishing, got n=%d q=%+v",
			snap.PlayerQuestionN, snap.PlayerQuestion)
	}
}

func TestConcurrentSubmitAnswerNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis", "Eva", "Tom")
	_, _ = f.engine.Start(ctx, f.roomID)

	players := []string{"Ana", "Luis", "Eva", "Tom"}
	const rounds = 50

	var wg sync.WaitGroup
	for _, player := range players {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, err := f.engine.SubmitAnswer(ctx, f.roomID, 1, 11, name); err != nil {
					t.Errorf("submit for %s: %v", name, err)
					return
				}
			}
		}(player)
	}
	wg.Wait()

	snap, _ := f.engine.Snapshot(f.roomID, "")
	for _, player := range players {
		if snap.Scores[player] != rounds*10 {
			t.Fatalf("lost update for %s: expected %d, got %d", player, rounds*10, snap.Scores[player])
		}
	}
}

func TestStartOverwritesPriorSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")
	_, _ = f.engine.Start(ctx, f.roomID)
	_, _ = f.engine.SubmitAnswer(ctx, f.roomID, 1, 11, "Ana")

	if _, err := f.engine.Start(ctx, f.roomID); err != nil {
		t.Fatalf("restart: %v", err)
	}
	snap, _ := f.engine.Snapshot(f.roomID, "")
	if snap.Scores["Ana"] != 0 {
		t.Fatalf("restart must discard the prior session, got score %d", snap.Scores["Ana"])
	}
}

func TestFinalizeIdempotentAndResultsSurviveEviction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")
	_, _ = f.engine.Start(ctx, f.roomID)
	_, _ = f.engine.SubmitAnswer(ctx, f.roomID, 1, 11, "Ana")

	msg1, err := f.engine.Finalize(ctx, f.roomID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	// Session is evicted; a second finalize answers from the record.
	msg2, err := f.engine.Finalize(ctx, f.roomID)
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	if msg1 != msg2 {
		t.Fatalf("finalize not idempotent: %q vs %q", msg1, msg2)
	}

	record, err := f.results.ByRoom(ctx, f.roomID)
	if err != nil {
		t.Fatalf("result record missing: %v", err)
	}
	if record.Winner != "Ana" {
		t.Fatalf("expected winner Ana, got %s", record.Winner)
	}

	results, err := f.engine.Results(ctx, f.roomID)
	if err != nil {
		t.Fatalf("results after eviction: %v", err)
	}
	if results.Winner != "Ana" || results.FinalScores["Ana"] != 10 || results.FinalScores["Luis"] != 0 {
		t.Fatalf("results round-trip mismatch: %+v", results)
	}
}

func TestWinnerTieBreakIsAlphabetical(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Zoe", "Ana")
	_, _ = f.engine.Start(ctx, f.roomID)

	// Both end on the same score.
	_, _ = f.engine.SubmitAnswer(ctx, f.roomID, 1, 11, "Zoe")
	_, _ = f.engine.SubmitAnswer(ctx, f.roomID, 1, 11, "Ana")

	msg, err := f.engine.Finalize(ctx, f.roomID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	record, _ := f.results.ByRoom(ctx, f.roomID)
	if record.Winner != "Ana" {
		t.Fatalf("tie must resolve alphabetically, got %s (%s)", record.Winner, msg)
	}
}

func TestResultsRequireTerminationOrRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Ana", "Luis")

	if _, err := f.engine.Results(ctx, f.roomID); !errors.Is(err, domain.ErrResultsNotFound) {
		t.Fatalf("expected ErrResultsNotFound with no session, got %v", err)
	}

	_, _ = f.engine.Start(ctx, f.roomID)
	if _, err := f.engine.Results(ctx, f.roomID); !errors.Is(err, domain.ErrResultsNotFound) {
		t.Fatalf("expected ErrResultsNotFound while running, got %v", err)
	}

	for _, player := range []string{"Ana", "Luis"} {
		_, _, _ = f.engine.Advance(ctx, f.roomID, player)
		_, _, _ = f.engine.Advance(ctx, f.roomID, player)
	}
	results, err := f.engine.Results(ctx, f.roomID)
	if err != nil {
		t.Fatalf("results after termination: %v", err)
	}
	if len(results.FinalScores) != 2 {
		t.Fatalf("expected both players in final scores, got %v", results.FinalScores)
	}
}
