package engine

// Command is a discrete player instruction.
type Command int

const (
	Spawn Command = iota
	MoveLeft
	MoveRight
	Rotate
	SoftDrop
	HardDrop
)

var commandNames = [...]string{
	Spawn:     "Spawn",
	MoveLeft:  "MoveLeft",
	MoveRight: "MoveRight",
	Rotate:    "Rotate",
	SoftDrop:  "SoftDrop",
	HardDrop:  "HardDrop",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "Unknown"
	}
	return commandNames[c]
}

// State is the engine's phase.
type State int

const (
	StateEmpty    State = iota // No active piece
	StateFalling               // An active piece is in play
	StateGameOver              // A spawn was blocked; only Reset leaves this state
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateFalling:
		return "Falling"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}
