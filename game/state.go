package game

import (
	"fmt"
	"strings"
)

const (
	Width  = 11
	Height = 9
	Cells  = Width * Height
)

// Knight jumps as (dx, dy)
var jumps = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

// Board is a knight Isolation position. It is a comparable value: two boards
// are equal iff they have the same open cells, piece locations and ply.
type Board struct {
	open [2]uint64 // Bitset of open cells, indexed by Location
	locs [2]Location
	ply  int
}

// NewBoard returns an empty board with the given cells closed as obstacles.
func NewBoard(blocked ...Location) Board {
	b := Board{locs: [2]Location{NoLocation, NoLocation}}
	for cell := Location(0); cell < Cells; cell++ {
		b.open[cell/64] |= bit(cell)
	}
	for _, cell := range blocked {
		if !inBounds(cell) {
			panic(fmt.Sprintf("blocked cell %d is off the board", cell))
		}
		b.close(cell)
	}
	return b
}

// At returns the location of column x and row y.
func At(x, y int) Location {
	return Location(x + y*Width)
}

// XY returns the column and row of a location.
func (l Location) XY() (x, y int) {
	return int(l) % Width, int(l) / Width
}

func (l Location) String() string {
	if l == NoLocation {
		return "none"
	}
	x, y := l.XY()
	return fmt.Sprintf("(%d,%d)", x, y)
}

func bit(cell Location) uint64 {
	return uint64(1) << (uint(cell) % 64)
}

func inBounds(cell Location) bool {
	return cell >= 0 && cell < Cells
}

func (b *Board) close(cell Location) {
	b.open[cell/64] &^= bit(cell)
}

// IsOpen reports whether a piece can still land on cell.
func (b Board) IsOpen(cell Location) bool {
	return inBounds(cell) && b.open[cell/64]&bit(cell) != 0
}

// Occupant returns the player standing on cell, or -1.
func (b Board) Occupant(cell Location) int {
	for player, loc := range b.locs {
		if loc != NoLocation && loc == cell {
			return player
		}
	}
	return -1
}

func (b Board) Player() int {
	return b.ply % 2
}

func (b Board) Ply() int {
	return b.ply
}

func (b Board) Locs() [2]Location {
	return b.locs
}

func (b Board) Liberties(loc Location) []Location {
	if loc == NoLocation { // Unplaced piece may go anywhere open
		cells := make([]Location, 0, Cells)
		for cell := Location(0); cell < Cells; cell++ {
			if b.IsOpen(cell) {
				cells = append(cells, cell)
			}
		}
		return cells
	}

	x, y := loc.XY()
	cells := make([]Location, 0, len(jumps))
	for _, jump := range jumps {
		nx, ny := x+jump[0], y+jump[1]
		if nx < 0 || nx >= Width || ny < 0 || ny >= Height {
			continue
		}
		if cell := At(nx, ny); b.IsOpen(cell) {
			cells = append(cells, cell)
		}
	}
	return cells
}

func (b Board) Actions() []Action {
	liberties := b.Liberties(b.locs[b.Player()])
	actions := make([]Action, len(liberties))
	for i, cell := range liberties {
		actions[i] = Action(cell)
	}
	return actions
}

func (b Board) Result(action Action) State {
	return b.Play(action)
}

// Play moves the current player's piece to the action's cell and closes it.
// It panics on an illegal action.
func (b Board) Play(action Action) Board {
	player := b.Player()
	if !b.isLegal(player, action.Location()) {
		panic(fmt.Sprintf("illegal action %v for player %d", action.Location(), player))
	}
	b.close(action.Location())
	b.locs[player] = action.Location()
	b.ply++
	return b
}

// IsLegal reports whether action is available to the player to move.
func (b Board) IsLegal(action Action) bool {
	return b.isLegal(b.Player(), action.Location())
}

func (b Board) isLegal(player int, cell Location) bool {
	for _, liberty := range b.Liberties(b.locs[player]) {
		if liberty == cell {
			return true
		}
	}
	return false
}

func (b Board) TerminalTest() bool {
	return len(b.Liberties(b.locs[b.Player()])) == 0
}

// Utility returns +1 if player has won, -1 if player has lost and 0 if the
// game is not over. The player to move at a terminal state has lost.
func (b Board) Utility(player int) int {
	if !b.TerminalTest() {
		return 0
	}
	if player == b.Player() {
		return -1
	}
	return 1
}

// Winner returns the winning player, or -1 if the game is not over.
func (b Board) Winner() int {
	if !b.TerminalTest() {
		return -1
	}
	return 1 - b.Player()
}

func (b Board) String() string {
	var sb strings.Builder
	for y := Height - 1; y >= 0; y-- {
		for x := 0; x < Width; x++ {
			cell := At(x, y)
			switch {
			case b.Occupant(cell) >= 0:
				sb.WriteByte(byte('1' + b.Occupant(cell)))
			case b.IsOpen(cell):
				sb.WriteByte('.')
			default:
				sb.WriteByte('#')
			}
			if x < Width-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
