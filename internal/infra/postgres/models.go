package postgres

import (
	"time"

	"github.com/uptrace/bun"
)

type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Code        string    `bun:"code,notnull,unique"`
	Description string    `bun:"description"`
	Capacity    int       `bun:"capacity,notnull"`
	CreatorID   int64     `bun:"creator_id"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Players []*Player `bun:"rel:has-many,join:id=room_id"`
}

type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Name   string `bun:"name,notnull"`
	RoomID int64  `bun:"room_id,notnull"`
}

type Question struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Text       string `bun:"text,notnull"`
	Category   string `bun:"category,notnull,default:'General'"`
	Difficulty string `bun:"difficulty,notnull,default:'Easy'"`

	Answers []*Answer `bun:"rel:has-many,join:id=question_id"`
}

type Answer struct {
	bun.BaseModel `bun:"table:answers,alias:a"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Text       string `bun:"text,notnull"`
	IsCorrect  bool   `bun:"is_correct,notnull"`
	QuestionID int64  `bun:"question_id,notnull"`
}

type GameResult struct {
	bun.BaseModel `bun:"table:game_results,alias:gr"`

	ID         int64     `bun:"id,pk,autoincrement"`
	RoomID     int64     `bun:"room_id,notnull,unique"`
	Winner     string    `bun:"winner,notnull"`
	ScoresJSON string    `bun:"scores_json,notnull"`
	FinishedAt time.Time `bun:"finished_at,nullzero,notnull,default:current_timestamp"`
}
