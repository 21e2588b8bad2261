package core

import (
	"errors"
	"strings"
	"unicode"

	"github.com/vovakirdan/ichi/internal/game"
)

// Error codes for domain errors.
const (
	ErrCodeGameNotFound  = "game_not_found"
	ErrCodeGameStarted   = "game_started"
	ErrCodeGameFull      = "game_full"
	ErrCodeNameTaken     = "name_taken"
	ErrCodeOutOfDate     = "out_of_date"
	ErrCodeNotInGame     = "not_in_game"
	ErrCodeAlreadyInGame = "already_in_game"
	ErrCodeBadMove       = "bad_move"
	ErrCodeBadRequest    = "bad_request"
)

// Messages sent to players. Close reasons are shown verbatim by clients.
const (
	MsgGameNotFound  = "Game not found"
	MsgGameStarted   = "Game already started"
	MsgGameFull      = "Game is full"
	MsgNameTaken     = "Username already in game"
	MsgOutOfDate     = "Out of date move"
	MsgNotInGame     = "Not in a game"
	MsgAlreadyInGame = "Already in a game"
	MsgNoUsername    = "Username required"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// joinError maps a refused join onto the close reason sent to the player.
func joinError(err error) *CoreError {
	switch {
	case errors.Is(err, game.ErrGameStarted):
		return coreError(ErrCodeGameStarted, MsgGameStarted)
	case errors.Is(err, game.ErrGameFull):
		return coreError(ErrCodeGameFull, MsgGameFull)
	case errors.Is(err, game.ErrNameTaken):
		return coreError(ErrCodeNameTaken, MsgNameTaken)
	default:
		return coreError(ErrCodeBadRequest, sentence(err.Error()))
	}
}

// moveError turns a rule violation into a notice.
func moveError(err error) *CoreError {
	return coreError(ErrCodeBadMove, sentence(err.Error()))
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return strings.TrimSpace(string(r))
}
