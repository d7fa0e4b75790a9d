package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUCB1(t *testing.T) {
	t.Run("computing UCB1 value", func(t *testing.T) {
		got := ucb1(10, 5, 20, CInterior)

		expected := 10.0/5 + math.Sqrt(2*math.Log(5)/20)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute reward/visits + c*sqrt(2*ln(visits)/parentVisits)")
	})

	t.Run("no exploration term without weight", func(t *testing.T) {
		require.Equal(t, 2.0, ucb1(10, 5, 20, CRoot), "Should be the average reward")
	})

	t.Run("no exploration term without parent visits", func(t *testing.T) {
		require.Equal(t, 2.0, ucb1(10, 5, 0, CInterior), "Should not divide by zero parent visits")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		require.Panics(t, func() { ucb1(0, 0, 10, CInterior) }, "Should panic when visits is 0")
	})
}

func TestSelectChild(t *testing.T) {
	t.Run("unvisited child beats any score", func(t *testing.T) {
		c1 := &Node{}
		c2 := &Node{visits: 5, reward: 10}
		node := &Node{visits: 6, children: []*Node{c1, c2}}

		require.Same(t, c1, selectChild(node, false), "Unvisited child should be selected")
	})

	t.Run("unvisited child short-circuits later children", func(t *testing.T) {
		c1 := &Node{visits: 5, reward: 100}
		c2 := &Node{}
		c3 := &Node{}
		node := &Node{visits: 6, children: []*Node{c1, c2, c3}}

		require.Same(t, c2, selectChild(node, false), "First unvisited child should be selected")
	})

	t.Run("root picks the best average regardless of visits", func(t *testing.T) {
		low := &Node{explored: true, visits: 10, reward: 30}  // 3.0
		high := &Node{explored: true, visits: 10, reward: 32} // 3.2
		node := &Node{visits: 20, children: []*Node{low, high}}
		require.Same(t, high, selectChild(node, true), "Root should pick the higher average")

		rarelyVisited := &Node{explored: true, visits: 1, reward: 3}      // 3.0
		oftenVisited := &Node{explored: true, visits: 1000, reward: 3200} // 3.2
		node = &Node{visits: 1001, children: []*Node{rarelyVisited, oftenVisited}}
		require.Same(t, oftenVisited, selectChild(node, true), "Root should not add an exploration bonus")
	})

	t.Run("interior node explores under-visited children", func(t *testing.T) {
		rarelyVisited := &Node{visits: 1, reward: 3}      // 3.0 + bonus
		oftenVisited := &Node{visits: 1000, reward: 3200} // 3.2 + bonus
		node := &Node{visits: 1001, children: []*Node{rarelyVisited, oftenVisited}}

		expected := rarelyVisited
		if ucb1(3200, 1000, 1001, CInterior) > ucb1(3, 1, 1001, CInterior) {
			expected = oftenVisited
		}
		require.Same(t, expected, selectChild(node, false), "Interior node should select the max UCB1 child")
	})

	t.Run("explored children are skipped below the root", func(t *testing.T) {
		explored := &Node{explored: true, visits: 2, reward: 100}
		other := &Node{visits: 2, reward: 0}
		node := &Node{visits: 4, children: []*Node{explored, other}}

		require.Same(t, other, selectChild(node, false), "Explored child should be skipped")
		require.Same(t, explored, selectChild(node, true), "Explored child should be eligible at the root")
	})

	t.Run("explored unvisited child is skipped below the root", func(t *testing.T) {
		explored := &Node{explored: true}
		other := &Node{visits: 1, reward: 1}
		node := &Node{visits: 1, children: []*Node{explored, other}}

		require.Same(t, other, selectChild(node, false), "Explored child should be skipped")
		require.Same(t, explored, selectChild(node, true), "Unvisited child should win at the root")
	})

	t.Run("ties go to the first child", func(t *testing.T) {
		c1 := &Node{visits: 2, reward: 4}
		c2 := &Node{visits: 2, reward: 4}
		node := &Node{visits: 4, children: []*Node{c1, c2}}

		require.Same(t, c1, selectChild(node, false), "First child should win ties")
		require.Same(t, c1, selectChild(node, true), "First child should win ties")
	})

	t.Run("no selection when every child is explored", func(t *testing.T) {
		node := &Node{visits: 2, children: []*Node{{explored: true, visits: 1}, {explored: true, visits: 1}}}

		require.Nil(t, selectChild(node, false), "Should select nothing")
	})

	t.Run("no selection without children", func(t *testing.T) {
		require.Nil(t, selectChild(&Node{}, true), "Should select nothing")
		require.Nil(t, selectChild(&Node{}, false), "Should select nothing")
	})
}
