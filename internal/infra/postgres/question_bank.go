package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

// QuestionBank serves random question draws and answer validation straight
// from Postgres via pgx. Randomization happens in SQL so the drawn order is
// already shuffled.
type QuestionBank struct {
	pool *pgxpool.Pool
}

func NewQuestionBank(pool *pgxpool.Pool) *QuestionBank {
	return &QuestionBank{pool: pool}
}

func (b *QuestionBank) Draw(ctx context.Context, n int) ([]domain.Question, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT id, text, category, difficulty FROM questions ORDER BY random() LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("draw questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	index := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, nil
	}

	answerRows, err := b.pool.Query(ctx,
		`SELECT id, text, is_correct, question_id FROM answers WHERE question_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer answerRows.Close()

	for answerRows.Next() {
		var a domain.Answer
		if err := answerRows.Scan(&a.ID, &a.Text, &a.IsCorrect, &a.QuestionID); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if i, ok := index[a.QuestionID]; ok {
			questions[i].Answers = append(questions[i].Answers, a)
		}
	}
	if err := answerRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return questions, nil
}

func (b *QuestionBank) Validate(ctx context.Context, questionID, answerID int64) (bool, error) {
	var correct bool
	err := b.pool.QueryRow(ctx,
		`SELECT is_correct FROM answers WHERE id = $1 AND question_id = $2`,
		answerID, questionID).Scan(&correct)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("validate answer: %w", err)
	}
	return correct, nil
}
