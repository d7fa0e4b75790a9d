package game

// Action is a move for the player to move: the cell its piece jumps to.
type Action int

// Location is a cell index on the board, x + y*Width.
type Location int

// NoLocation marks a player whose piece has not been placed yet.
const NoLocation Location = -1

// State should be immutable - operations on State always return a new copy.
// Implementations must be comparable with == so that a search tree can match
// an observed state against the states it has already expanded.
type State interface {
	// Actions returns the legal actions of the player to move
	Actions() []Action
	// Result returns the state reached by applying action
	Result(action Action) State
	// TerminalTest reports whether the player to move has no legal action
	TerminalTest() bool
	// Player returns the player to move (0 or 1)
	Player() int
	// Locs returns both players' locations indexed by player
	Locs() [2]Location
	// Liberties returns the cells reachable from loc
	Liberties(loc Location) []Location
}

func (a Action) Location() Location {
	return Location(a)
}
