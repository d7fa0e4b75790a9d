package game

// Mobility scores a state as the number of cells player can reach minus the
// number of cells the opponent can reach. It is antisymmetric:
// Mobility(s, p) == -Mobility(s, 1-p).
func Mobility(s State, player int) int {
	locs := s.Locs()
	return len(s.Liberties(locs[player])) - len(s.Liberties(locs[1-player]))
}
