package domain

import "errors"

var (
	// ErrRoomNotFound is returned when a room id or join code does not resolve.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull is returned when joining a room at capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrDuplicateName is returned when the name is already taken in the room.
	ErrDuplicateName = errors.New("a player with that name is already in the room")
	// ErrPlayerNotFound is returned when a player is not on the room's roster.
	ErrPlayerNotFound = errors.New("player not found in room")
	// ErrEmptyName is returned for blank player names or join codes.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrNotEnoughPlayers is returned when starting with fewer than two players.
	ErrNotEnoughPlayers = errors.New("at least 2 players are required to start")
	// ErrNoQuestions indicates the question bank had nothing to draw.
	ErrNoQuestions = errors.New("no questions available")
	// ErrNoActiveSession is returned when an action needs a running game.
	ErrNoActiveSession = errors.New("no active game for this room")
	// ErrPlayerNotInSession is returned when a player is unknown to the session.
	ErrPlayerNotInSession = errors.New("player is not part of this game")
	// ErrResultsNotFound is returned when neither a live session nor a
	// persisted result exists for the room.
	ErrResultsNotFound = errors.New("no results found for this room")
)
