package http

import (
	"encoding/json"

	"github.com/vovakirdan/ichi/internal/core"
	"github.com/vovakirdan/ichi/internal/proto"
)

var intentKinds = map[proto.IntentType]core.CommandKind{
	proto.IntentCreateGame: core.CommandCreateGame,
	proto.IntentJoinGame:   core.CommandJoinGame,
	proto.IntentStartGame:  core.CommandStartGame,
	proto.IntentMove:       core.CommandMove,
	proto.IntentDraw:       core.CommandDraw,
	proto.IntentIchi:       core.CommandIchi,
}

func intentToCommand(client *core.Client, in proto.Intent) *core.Command {
	kind, ok := intentKinds[in.Type]
	if !ok {
		return nil
	}
	return &core.Command{
		Kind:     kind,
		Client:   client,
		Username: in.Username,
		Code:     in.GameCode,
		StateID:  in.StateID,
		Data:     in.Data,
	}
}

func pushFromEvent(event *core.Event) (proto.Push, error) {
	switch event.Kind {
	case core.EventGameState:
		raw, err := json.Marshal(event.View)
		if err != nil {
			return proto.Push{}, err
		}
		return proto.Push{GameState: &proto.GameView{
			ID:       event.View.ID,
			GameCode: event.View.GameCode,
			Raw:      raw,
		}}, nil
	default:
		if event.Error == nil {
			return proto.Push{Error: "Unknown error"}, nil
		}
		return proto.Push{Error: event.Error.Message}, nil
	}
}
