package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

func bankQuestions() []domain.Question {
	return []domain.Question{
		{
			ID: 1, Text: "What is 2 + 2?",
			Answers: []domain.Answer{
				{ID: 1, Text: "4", IsCorrect: true, QuestionID: 1},
				{ID: 2, Text: "5", QuestionID: 1},
			},
		},
		{
			ID: 2, Text: "Red planet?",
			Answers: []domain.Answer{
				{ID: 3, Text: "Mars", IsCorrect: true, QuestionID: 2},
				{ID: 4, Text: "Venus", QuestionID: 2},
			},
		},
	}
}

func TestDrawCapsAtBankSize(t *testing.T) {
	bank := NewQuestionBank(bankQuestions())

	drawn, err := bank.Draw(context.Background(), 10)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(drawn) != 2 {
		t.Fatalf("expected all 2 questions, got %d", len(drawn))
	}

	seen := map[int64]bool{}
	for _, q := range drawn {
		if seen[q.ID] {
			t.Fatalf("question %d drawn twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestConcurrentDraws(t *testing.T) {
	ctx := context.Background()
	bank := NewQuestionBank(bankQuestions())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				drawn, err := bank.Draw(ctx, 2)
				if err != nil || len(drawn) != 2 {
					t.Errorf("draw: len=%d err=%v", len(drawn), err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestValidateFailsClosed(t *testing.T) {
	ctx := context.Background()
	bank := NewQuestionBank(bankQuestions())

	correct, err := bank.Validate(ctx, 1, 1)
	if err != nil || !correct {
		t.Fatalf("expected correct, got correct=%v err=%v", correct, err)
	}
	correct, err = bank.Validate(ctx, 1, 2)
	if err != nil || correct {
		t.Fatalf("expected incorrect, got correct=%v err=%v", correct, err)
	}
	// Answer belonging to another question is not correct for this one.
	correct, err = bank.Validate(ctx, 1, 3)
	if err != nil || correct {
		t.Fatalf("cross-question pair must be incorrect, got correct=%v err=%v", correct, err)
	}
	correct, err = bank.Validate(ctx, 99, 99)
	if err != nil || correct {
		t.Fatalf("unknown pair must be incorrect, not an error, got correct=%v err=%v", correct, err)
	}
}
