package searcher

import "math"

// Hyperparameters for UCB1

const CInterior = 1.0 // Exploration weight below the root
const CRoot = 0.0     // The root picks the move to play, so it only exploits

func explorationWeight(isRoot bool) float64 {
	if isRoot {
		return CRoot
	}
	return CInterior
}

// ucb1 = reward/visits + c*sqrt(2*ln(visits)/parentVisits)
func ucb1(reward, visits, parentVisits int, c float64) float64 {
	if visits == 0 { // Prevent division by zero
		panic("cannot compute UCB1: 0 visits")
	}

	score := float64(reward) / float64(visits)
	if c > 0 && parentVisits > 0 {
		score += c * math.Sqrt(2*math.Log(float64(visits))/float64(parentVisits))
	}
	return score
}

// selectChild picks the child to descend into. Explored children are skipped
// below the root, an unvisited child wins outright, and ties go to the first
// child seen. It returns nil when no child qualifies.
func selectChild(node *Node, isRoot bool) *Node {
	c := explorationWeight(isRoot)

	var best *Node
	bestScore := math.Inf(-1)
	for _, child := range node.children {
		if child.explored && !isRoot {
			continue
		}
		if child.visits == 0 {
			return child
		}
		if score := ucb1(child.reward, child.visits, node.visits, c); best == nil || score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}
