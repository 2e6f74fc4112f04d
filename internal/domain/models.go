package domain

import "time"

// Player is a roster member of a room. Names are unique within a room,
// not globally.
type Player struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	RoomID int64  `json:"roomId"`
}

// Room is a pre-game lobby with a join code and a bounded roster.
type Room struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	CreatorID   int64     `json:"creatorId"`
	Players     []Player  `json:"players"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreatorName returns the roster name of the room creator, or "" if the
// creator is no longer a member.
func (r Room) CreatorName() string {
	for _, p := range r.Players {
		if p.ID == r.CreatorID {
			return p.Name
		}
	}
	return ""
}

// HasPlayer reports whether name is on the roster.
func (r Room) HasPlayer(name string) bool {
	for _, p := range r.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Answer is one option of a question. The correct flag is never serialized
// to clients.
type Answer struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"-"`
	QuestionID int64  `json:"questionId"`
}

// Question is a trivia question with its answer options.
type Question struct {
	ID         int64    `json:"id"`
	Text       string   `json:"text"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Answers    []Answer `json:"answers"`
}

// ResultRecord is the durable outcome of a finished game. It outlives the
// in-memory session and is the sole source of truth once the session is
// evicted.
type ResultRecord struct {
	ID         int64          `json:"id"`
	RoomID     int64          `json:"roomId"`
	Winner     string         `json:"winner"`
	Scores     map[string]int `json:"scores"`
	FinishedAt time.Time      `json:"finishedAt"`
}

// RoomSnapshot is the point-in-time lobby view served to polling and
// streaming clients.
type RoomSnapshot struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Players     []string  `json:"players"`
	Capacity    int       `json:"capacity"`
	Creator     string    `json:"creator"`
	Countdown   *int      `json:"countdown,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// GameSnapshot is the point-in-time game view. QuestionNumber is the
// 1-based index of the question every player has at least reached.
type GameSnapshot struct {
	Started         bool           `json:"started"`
	Terminated      bool           `json:"terminated"`
	QuestionNumber  int            `json:"questionNumber"`
	TotalQuestions  int            `json:"totalQuestions"`
	Scores          map[string]int `json:"scores"`
	Progress        map[string]int `json:"progress"`
	PlayerQuestion  *Question      `json:"playerQuestion,omitempty"`
	PlayerQuestionN int            `json:"playerQuestionNumber,omitempty"`
}

// GameResults pairs the winner with the final score map.
type GameResults struct {
	Winner      string         `json:"winner"`
	FinalScores map[string]int `json:"finalScores"`
}
