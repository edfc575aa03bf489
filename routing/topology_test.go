//go:build unit
// +build unit

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearTopology(t *testing.T) {
	top, err := Linear(5)
	assert.Nil(t, err)
	assert.Equal(t, top.NumQubits(), 5)
	assert.Equal(t, top.NumEdges(), 4)

	assert.True(t, top.Connected(0, 1))
	assert.True(t, top.Connected(1, 0))
	assert.False(t, top.Connected(0, 2))
	assert.True(t, top.Connected(3, 3))

	d, err := top.Distance(0, 4)
	assert.Nil(t, err)
	assert.Equal(t, d, 4)
	d, _ = top.Distance(2, 2)
	assert.Equal(t, d, 0)

	for k := 0; k < 5; k++ {
		neighbors, err := top.Neighbors(k)
		assert.Nil(t, err)
		for _, n := range neighbors {
			assert.True(t, n == k-1 || n == k+1)
		}
	}
	assert.True(t, top.IsConnected())
}

func TestRingTopology(t *testing.T) {
	top, err := Ring(4)
	assert.Nil(t, err)
	assert.Equal(t, top.NumEdges(), 4)
	assert.True(t, top.Connected(0, 3))
	d, _ := top.Distance(0, 3)
	assert.Equal(t, d, 1)
	d, _ = top.Distance(0, 2)
	assert.Equal(t, d, 2)

	_, err = Ring(1)
	assert.NotNil(t, err)
}

func TestGridTopology(t *testing.T) {
	top, err := Grid(3, 3)
	assert.Nil(t, err)
	assert.Equal(t, top.NumQubits(), 9)

	// row-major numbering: 4 is the center
	neighbors, _ := top.Neighbors(4)
	assert.ElementsMatch(t, neighbors, []int{1, 3, 5, 7})

	d, _ := top.Distance(0, 8)
	assert.Equal(t, d, 4)

	path, err := top.ShortestPath(0, 8)
	assert.Nil(t, err)
	assert.Equal(t, len(path), 5)
	assert.Equal(t, path[0], 0)
	assert.Equal(t, path[len(path)-1], 8)
	for i := 0; i+1 < len(path); i++ {
		assert.True(t, top.Connected(path[i], path[i+1]))
	}
}

func TestHeavyHexUnitCell(t *testing.T) {
	top, err := HeavyHex(1)
	assert.Nil(t, err)
	assert.Equal(t, top.NumQubits(), 7)
	assert.Equal(t, top.NumEdges(), 12)

	// the hub reaches every ring qubit directly
	hub, _ := top.Neighbors(6)
	assert.ElementsMatch(t, hub, []int{0, 1, 2, 3, 4, 5})
	// the ring is a 6-cycle
	assert.True(t, top.Connected(0, 1))
	assert.True(t, top.Connected(5, 0))
	assert.False(t, top.Connected(0, 3))
	d, _ := top.Distance(0, 3)
	assert.Equal(t, d, 2)

	_, err = HeavyHex(0)
	assert.NotNil(t, err)
}

func TestHeavyHexLattice(t *testing.T) {
	top, err := HeavyHex(2)
	assert.Nil(t, err)
	assert.Equal(t, top.NumQubits(), 25)
	assert.True(t, top.IsConnected())
}

func TestTopologyValidation(t *testing.T) {
	_, err := NewTopology(0)
	assert.NotNil(t, err)

	top, _ := NewTopology(3)
	assert.NotNil(t, top.AddEdge(0, 0))
	assert.NotNil(t, top.AddEdge(0, 3))
	assert.NotNil(t, top.AddEdge(-1, 0))

	_, err = top.Neighbors(5)
	assert.NotNil(t, err)
	_, err = top.Distance(0, 9)
	assert.NotNil(t, err)
	_, err = top.ShortestPath(9, 0)
	assert.NotNil(t, err)
}

func TestTopologyDuplicateEdgesIdempotent(t *testing.T) {
	top, _ := NewTopology(2)
	assert.Nil(t, top.AddEdge(0, 1))
	assert.Nil(t, top.AddEdge(1, 0))
	assert.Nil(t, top.AddEdge(0, 1))
	assert.Equal(t, top.NumEdges(), 1)
}

func TestTopologyDisconnected(t *testing.T) {
	top, _ := NewTopology(4)
	top.AddEdge(0, 1)
	top.AddEdge(2, 3)

	assert.False(t, top.IsConnected())
	d, err := top.Distance(0, 3)
	assert.Nil(t, err)
	assert.Equal(t, d, Infinite)

	_, err = top.ShortestPath(0, 3)
	assert.NotNil(t, err)
}

func TestTopologyDistanceCacheInvalidation(t *testing.T) {
	top, _ := NewTopology(3)
	top.AddEdge(0, 1)
	d, _ := top.Distance(0, 2)
	assert.Equal(t, d, Infinite)

	assert.Nil(t, top.AddEdge(1, 2))
	d, _ = top.Distance(0, 2)
	assert.Equal(t, d, 2)
}

func TestTopologyShortestPathTrivial(t *testing.T) {
	top, _ := Linear(3)
	path, err := top.ShortestPath(1, 1)
	assert.Nil(t, err)
	assert.Equal(t, path, []int{1})

	path, _ = top.ShortestPath(0, 1)
	assert.Equal(t, path, []int{0, 1})
}

func TestFromEdges(t *testing.T) {
	top, err := FromEdges(3, [][2]int{{0, 1}, {1, 2}})
	assert.Nil(t, err)
	assert.True(t, top.Connected(0, 1))
	assert.True(t, top.Connected(1, 2))
	assert.False(t, top.Connected(0, 2))

	_, err = FromEdges(2, [][2]int{{0, 5}})
	assert.NotNil(t, err)
}

func TestShortestPathLengthMatchesDistance(t *testing.T) {
	top, _ := Grid(2, 3)
	for p := 0; p < top.NumQubits(); p++ {
		for q := 0; q < top.NumQubits(); q++ {
			d, err := top.Distance(p, q)
			assert.Nil(t, err)
			path, err := top.ShortestPath(p, q)
			assert.Nil(t, err)
			assert.Equal(t, len(path), d+1)
		}
	}
}
