package main

import (
	"fmt"
	"isolation/game"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	p1Style       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007e50ff", Dark: "#6afd76ff"}).Render
	p2Style       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0003adff", Dark: "#5f61fcff"}).Render
	closedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141ff", Dark: "#8f8f8fff"}).Render
	libertyStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8a880fff", Dark: "#ddda1dff"}).Render
	lastMoveStyle = lipgloss.NewStyle().Bold(true).Underline(true).Render
	boardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func mark(player int) string {
	if player == 0 {
		return p1Style("1")
	}
	return p2Style("2")
}

// render draws the board with the last move and the liberties of the
// player to move highlighted
func render(board game.Board) string {
	moved := game.NoLocation
	if board.Ply() > 0 {
		moved = board.Locs()[1-board.Player()]
	}
	liberties := map[game.Location]bool{}
	for _, cell := range board.Liberties(board.Locs()[board.Player()]) {
		liberties[cell] = true
	}

	var sb strings.Builder
	for y := game.Height - 1; y >= 0; y-- {
		for x := 0; x < game.Width; x++ {
			cell := game.At(x, y)
			var s string
			switch {
			case board.Occupant(cell) >= 0:
				s = mark(board.Occupant(cell))
				if cell == moved {
					s = lastMoveStyle(s)
				}
			case liberties[cell]:
				s = libertyStyle("+")
			case board.IsOpen(cell):
				s = "."
			default:
				s = closedStyle("#")
			}
			sb.WriteString(s)
			if x < game.Width-1 {
				sb.WriteByte(' ')
			}
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}

	header := fmt.Sprintf("Ply %d, to move: %s", board.Ply(), mark(board.Player()))
	return header + "\n" + boardStyle.Render(sb.String())
}
