package group

import (
	"fairpass/pkg/zkp"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// tree is a fixed-depth incremental Merkle tree. Unset leaves hold zero and
// unset interior nodes hold the matching zero subtree hash.
type tree struct {
	depth int
	zeros []fr.Element   // zeros[level]
	nodes [][]fr.Element // nodes[level][index], only the filled prefix is stored
}

func newTree(depth int) *tree {
	zeros := make([]fr.Element, depth+1)
	for level := 1; level <= depth; level++ {
		zeros[level] = zkp.Hash(zeros[level-1], zeros[level-1])
	}
	return &tree{
		depth: depth,
		zeros: zeros,
		nodes: make([][]fr.Element, depth+1),
	}
}

func (t *tree) capacity() int {
	return 1 << t.depth
}

func (t *tree) size() int {
	return len(t.nodes[0])
}

func (t *tree) node(level, index int) fr.Element {
	if index < len(t.nodes[level]) {
		return t.nodes[level][index]
	}
	return t.zeros[level]
}

// append inserts leaf at the next free index and refreshes its path to the root.
func (t *tree) append(leaf fr.Element) {
	index := len(t.nodes[0])
	t.nodes[0] = append(t.nodes[0], leaf)

	current := leaf
	for level := 0; level < t.depth; level++ {
		var left, right fr.Element
		if index%2 == 0 {
			left, right = current, t.zeros[level]
		} else {
			left, right = t.nodes[level][index-1], current
		}
		current = zkp.Hash(left, right)
		index /= 2

		if index < len(t.nodes[level+1]) {
			t.nodes[level+1][index] = current
		} else {
			t.nodes[level+1] = append(t.nodes[level+1], current)
		}
	}
}

// rootWith computes the root the tree would have after appending leaf, without mutating it.
func (t *tree) rootWith(leaf fr.Element) fr.Element {
	index := len(t.nodes[0])
	current := leaf
	for level := 0; level < t.depth; level++ {
		if index%2 == 0 {
			current = zkp.Hash(current, t.zeros[level])
		} else {
			current = zkp.Hash(t.nodes[level][index-1], current)
		}
		index /= 2
	}
	return current
}

func (t *tree) root() fr.Element {
	return t.node(t.depth, 0)
}

// path returns the siblings of leaf index from the bottom up, and for each level
// whether the running node sits on the right.
func (t *tree) path(index int) ([]fr.Element, []bool) {
	siblings := make([]fr.Element, t.depth)
	bits := make([]bool, t.depth)
	for level := 0; level < t.depth; level++ {
		isRight := index%2 == 1
		if isRight {
			siblings[level] = t.node(level, index-1)
		} else {
			siblings[level] = t.node(level, index+1)
		}
		bits[level] = isRight
		index /= 2
	}
	return siblings, bits
}

// rootFromPath folds leaf up a path; it mirrors the circuit.
func rootFromPath(leaf fr.Element, siblings []fr.Element, bits []bool) fr.Element {
	node := leaf
	for i := range siblings {
		if bits[i] {
			node = zkp.Hash(siblings[i], node)
		} else {
			node = zkp.Hash(node, siblings[i])
		}
	}
	return node
}
