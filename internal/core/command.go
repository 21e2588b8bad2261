package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateGame opens a new room with the client as host.
	CommandCreateGame CommandKind = iota
	// CommandJoinGame seats the client in an existing room.
	CommandJoinGame
	// CommandStartGame deals the cards.
	CommandStartGame
	// CommandMove plays a card.
	CommandMove
	// CommandDraw draws a card and passes the turn.
	CommandDraw
	// CommandIchi announces a last card or catches a player who did not.
	CommandIchi
)

var commandNames = [...]string{"create", "join", "start", "move", "draw", "ichi"}

func (k CommandKind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return "unknown"
}

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Client   *Client
	Username string
	Code     string
	StateID  int64
	Data     []string
}
