package redis

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
	"github.com/MarianoIzarriaga/Trivia/internal/game"
)

const answersKey = "trivia:answers"

// QuestionCache decorates a question bank with a Redis answer-key cache:
// HSET trivia:answers {questionID} {correctAnswerID}. Draws populate the
// hash for every drawn question so the validate hot path during a game
// rarely touches the database.
type QuestionCache struct {
	client *redis.Client
	bank   game.QuestionBank
	ttl    time.Duration
	sf     singleflight.Group
}

func NewQuestionCache(client *redis.Client, bank game.QuestionBank, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		bank:   bank,
		ttl:    ttl,
	}
}

func (c *QuestionCache) Draw(ctx context.Context, n int) ([]domain.Question, error) {
	questions, err := c.bank.Draw(ctx, n)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return questions, nil
	}

	// Best effort: cache misses just fall through to the bank.
	pipe := c.client.Pipeline()
	for _, q := range questions {
		if correct, ok := correctAnswer(q); ok {
			pipe.HSet(ctx, answersKey, formatID(q.ID), formatID(correct))
		}
	}
	if c.ttl > 0 {
		pipe.Expire(ctx, answersKey, c.ttlWithJitter())
	}
	_, _ = pipe.Exec(ctx)

	return questions, nil
}

func (c *QuestionCache) Validate(ctx context.Context, questionID, answerID int64) (bool, error) {
	cached, err := c.client.HGet(ctx, answersKey, formatID(questionID)).Result()
	if err == nil {
		return cached == formatID(answerID), nil
	}

	key := formatID(questionID) + ":" + formatID(answerID)
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		correct, err := c.bank.Validate(ctx, questionID, answerID)
		if err != nil {
			return false, err
		}
		if correct {
			_ = c.client.HSet(ctx, answersKey, formatID(questionID), formatID(answerID)).Err()
		}
		return correct, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func correctAnswer(q domain.Question) (int64, bool) {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a.ID, true
		}
	}
	return 0, false
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations; the top-level rand
	// functions are safe for concurrent draws
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
