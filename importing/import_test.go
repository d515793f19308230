package importing

import (
	"github.com/paulmach/orb"
	"searoute/util"
	"testing"
)

func TestAssembleRings_singleClosedWay(t *testing.T) {
	// Arrange
	segments := [][]orb.Point{
		{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
	}

	// Act
	rings, openChains := assembleRings(segments)

	// Assert
	util.AssertEqual(t, 1, len(rings))
	util.AssertEqual(t, 0, openChains)
	util.AssertEqual(t, orb.Ring(segments[0]), rings[0])
}

func TestAssembleRings_chainsUnorderedWays(t *testing.T) {
	// Arrange: three ways forming one square, listed out of order
	segments := [][]orb.Point{
		{{1, 1}, {0, 1}},
		{{0, 0}, {1, 0}, {1, 1}},
		{{0, 1}, {0, 0}},
	}

	// Act
	rings, openChains := assembleRings(segments)

	// Assert
	util.AssertEqual(t, 1, len(rings))
	util.AssertEqual(t, 0, openChains)
	util.AssertEqual(t, 5, len(rings[0]))
	util.AssertEqual(t, rings[0][0], rings[0][len(rings[0])-1])
}

func TestAssembleRings_reversedWay(t *testing.T) {
	// Arrange: the second way runs in the opposite direction
	segments := [][]orb.Point{
		{{0, 0}, {1, 0}, {1, 1}},
		{{0, 0}, {0, 1}, {1, 1}},
	}

	// Act
	rings, openChains := assembleRings(segments)

	// Assert
	util.AssertEqual(t, 1, len(rings))
	util.AssertEqual(t, 0, openChains)
}

func TestAssembleRings_openChainIsDropped(t *testing.T) {
	// Arrange: a closed square and a dangling line
	segments := [][]orb.Point{
		{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
		{{5, 5}, {6, 6}},
	}

	// Act
	rings, openChains := assembleRings(segments)

	// Assert
	util.AssertEqual(t, 1, len(rings))
	util.AssertEqual(t, 1, openChains)
}

func TestAssembleRings_multipleIslands(t *testing.T) {
	// Arrange
	segments := [][]orb.Point{
		{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
		{{5, 5}, {6, 5}, {6, 6}, {5, 6}, {5, 5}},
	}

	// Act
	rings, openChains := assembleRings(segments)

	// Assert
	util.AssertEqual(t, 2, len(rings))
	util.AssertEqual(t, 0, openChains)
}
