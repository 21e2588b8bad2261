package proto

import (
	"encoding/json"
	"errors"
)

// IntentType names the action a client asks the server to perform.
type IntentType string

const (
	IntentCreateGame IntentType = "createGame"
	IntentJoinGame   IntentType = "joinGame"
	IntentStartGame  IntentType = "startGame"
	IntentMove       IntentType = "move"
	IntentDraw       IntentType = "draw"
	IntentIchi       IntentType = "ichi"
)

// NoState is the stateId sent before any game view has been received.
const NoState = -1

// Valid reports whether t is one of the known intent types.
func (t IntentType) Valid() bool {
	switch t {
	case IntentCreateGame, IntentJoinGame, IntentStartGame, IntentMove, IntentDraw, IntentIchi:
		return true
	}
	return false
}

// Intent is the envelope for messages sent by the client.
type Intent struct {
	Type     IntentType `json:"type"`
	Username string     `json:"username"`
	StateID  int64      `json:"stateId"`
	Data     []string   `json:"data"`
	GameCode string     `json:"gameCode,omitempty"`
}

// Push is the envelope for messages sent by the server.
type Push struct {
	Error     string    `json:"error,omitempty"`
	GameState *GameView `json:"gameState,omitempty"`
}

// Empty reports whether the push carries neither an error nor a state.
func (p Push) Empty() bool {
	return p.Error == "" && p.GameState == nil
}

// GameView is the authoritative game snapshot. Only ID and GameCode are
// interpreted by the session layer; the full payload is kept in Raw.
type GameView struct {
	ID       int64
	GameCode string
	Raw      json.RawMessage
}

type gameViewHead struct {
	ID       *int64 `json:"id"`
	GameCode string `json:"gameCode"`
}

var errMissingViewID = errors.New("game view without id")

// UnmarshalJSON keeps the whole object while extracting id and gameCode.
func (v *GameView) UnmarshalJSON(data []byte) error {
	var head gameViewHead
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.ID == nil {
		return errMissingViewID
	}
	v.ID = *head.ID
	v.GameCode = head.GameCode
	v.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the raw payload back, or a minimal object when there is none.
func (v GameView) MarshalJSON() ([]byte, error) {
	if len(v.Raw) > 0 {
		return v.Raw, nil
	}
	return json.Marshal(gameViewHead{ID: &v.ID, GameCode: v.GameCode})
}

// Decode unmarshals the full view into dst.
func (v *GameView) Decode(dst any) error {
	if v == nil || len(v.Raw) == 0 {
		return errors.New("empty game view")
	}
	return json.Unmarshal(v.Raw, dst)
}
