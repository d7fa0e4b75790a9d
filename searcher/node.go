package searcher

import (
	"isolation/game"
	"slices"

	"golang.org/x/exp/rand"
)

// Node is a vertex of the search tree. Each node exclusively owns its
// children, so dropping a node releases its whole subtree.
type Node struct {
	state    game.State
	action   game.Action // Action from the parent's state, unset on the root
	expanded bool        // Children materialized, in a fixed random order
	children []*Node
	explored bool  // Terminal, or every child is explored
	visits   int   // Backups through this node
	reward   int   // Sum (not average) of backed up rewards
	best     *Node // Child chosen as the move on the current turn (root only)
}

func newRoot(state game.State) *Node {
	return &Node{state: state}
}

func newChild(parent *Node, action game.Action) *Node {
	return &Node{
		state:  parent.state.Result(action),
		action: action,
	}
}

// expand materializes one child per legal action in a random order. It is
// idempotent: an expanded node keeps its children and their order.
func (n *Node) expand(rng *rand.Rand) []*Node {
	if n.expanded {
		return n.children
	}
	if n.state.TerminalTest() {
		panic("cannot expand terminal node")
	}

	actions := slices.Clone(n.state.Actions())
	rng.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
	})

	n.children = make([]*Node, len(actions))
	for i, action := range actions {
		n.children[i] = newChild(n, action)
	}
	n.expanded = true
	return n.children
}

// updateExplored marks the node explored once all its children are. It never
// clears the flag.
func (n *Node) updateExplored() {
	for _, child := range n.children {
		if !child.explored {
			return
		}
	}
	n.explored = true
}

func (n *Node) State() game.State {
	return n.state
}

func (n *Node) Action() game.Action {
	return n.action
}

func (n *Node) Visits() int {
	return n.visits
}

// Average returns the mean backed up reward, or 0 for an unvisited node.
func (n *Node) Average() float64 {
	if n.visits == 0 {
		return 0
	}
	return float64(n.reward) / float64(n.visits)
}
