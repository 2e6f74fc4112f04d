package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

// QuestionBank serves a fixed question set from memory, drawing random
// subsets the same way the SQL bank does with ORDER BY random().
type QuestionBank struct {
	mu        sync.RWMutex
	questions []domain.Question
	rnd       *rand.Rand
}

func NewQuestionBank(questions []domain.Question) *QuestionBank {
	return &QuestionBank{
		questions: questions,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *QuestionBank) Draw(ctx context.Context, n int) ([]domain.Question, error) {
	// Write lock: Perm mutates the generator state.
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.questions) {
		n = len(b.questions)
	}
	perm := b.rnd.Perm(len(b.questions))
	drawn := make([]domain.Question, 0, n)
	for _, i := range perm[:n] {
		drawn = append(drawn, b.questions[i])
	}
	return drawn, nil
}

func (b *QuestionBank) Validate(ctx context.Context, questionID, answerID int64) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
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
