// Package huffman implements a static Huffman coder over bytes.
//
// The code is built from the byte frequencies of the input, and the
// frequency table travels with the compressed bits so that the decoder can
// rebuild exactly the same tree.
package huffman

import (
	"container/heap"
	"errors"
	"sort"
	"strings"

	"github.com/lzforge/compra/bitstream"
)

// ErrCorrupt is returned when the bits do not decode with the frequency
// table, for example when they end in the middle of a code.
var ErrCorrupt = errors.New("huffman: corrupt input")

// A FrequencyTable holds the number of times each byte occurs.
type FrequencyTable map[byte]int

// Frequencies counts the bytes in src.
func Frequencies(src []byte) FrequencyTable {
	freq := make(FrequencyTable)
	for _, c := range src {
		freq[c]++
	}
	return freq
}

// Compressed is the output of Compress.
type Compressed struct {
	Data        []byte
	Frequencies FrequencyTable

	// BitLength is the number of meaningful bits in Data; the rest of the
	// last byte is padding.
	BitLength int
}

// A node is a tree node in the arena. Leaves have left == -1.
type node struct {
	freq        int
	symbol      byte
	left, right int
}

// tree is a Huffman tree stored as a slice of nodes, with children
// referenced by index.
type tree struct {
	nodes []node
	root  int
}

// nodeQueue is a min-heap of node indexes, ordered by frequency and then by
// index, so that equal frequencies come out in the order the nodes were
// created.
type nodeQueue struct {
	t   *tree
	idx []int
}

func (q *nodeQueue) Len() int { return len(q.idx) }

func (q *nodeQueue) Less(i, j int) bool {
	a, b := q.t.nodes[q.idx[i]], q.t.nodes[q.idx[j]]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return q.idx[i] < q.idx[j]
}

func (q *nodeQueue) Swap(i, j int) { q.idx[i], q.idx[j] = q.idx[j], q.idx[i] }

func (q *nodeQueue) Push(x interface{}) { q.idx = append(q.idx, x.(int)) }

func (q *nodeQueue) Pop() interface{} {
	n := len(q.idx)
	x := q.idx[n-1]
	q.idx = q.idx[:n-1]
	return x
}

// buildTree builds the tree for freq. Leaves are created in ascending
// symbol order. It returns nil if freq has no symbols.
func buildTree(freq FrequencyTable) *tree {
	symbols := make([]int, 0, len(freq))
	for c, n := range freq {
		if n > 0 {
			symbols = append(symbols, int(c))
		}
	}
	if len(symbols) == 0 {
		return nil
	}
	sort.Ints(symbols)

	t := &tree{nodes: make([]node, 0, 2*len(symbols)-1)}
	q := &nodeQueue{t: t}
	for _, c := range symbols {
		t.nodes = append(t.nodes, node{freq: freq[byte(c)], symbol: byte(c), left: -1, right: -1})
		q.idx = append(q.idx, len(t.nodes)-1)
	}
	heap.Init(q)

	for q.Len() > 1 {
		left := heap.Pop(q).(int)
		right := heap.Pop(q).(int)
		t.nodes = append(t.nodes, node{
			freq:  t.nodes[left].freq + t.nodes[right].freq,
			left:  left,
			right: right,
		})
		heap.Push(q, len(t.nodes)-1)
	}
	t.root = q.idx[0]
	return t
}

func (t *tree) isLeaf(i int) bool { return t.nodes[i].left < 0 }

// codes walks the tree, appending '0' for a left edge and '1' for a right
// edge. A tree that is a single leaf gets the code "0".
func (t *tree) codes() map[byte]string {
	codes := make(map[byte]string, (len(t.nodes)+1)/2)
	if t.isLeaf(t.root) {
		codes[t.nodes[t.root].symbol] = "0"
		return codes
	}
	var walk func(i int, prefix string)
	walk = func(i int, prefix string) {
		if t.isLeaf(i) {
			codes[t.nodes[i].symbol] = prefix
			return
		}
		walk(t.nodes[i].left, prefix+"0")
		walk(t.nodes[i].right, prefix+"1")
	}
	walk(t.root, "")
	return codes
}

// Codes returns the bit string assigned to each symbol in freq.
func Codes(freq FrequencyTable) map[byte]string {
	t := buildTree(freq)
	if t == nil {
		return map[byte]string{}
	}
	return t.codes()
}

// Compress Huffman-codes src.
func Compress(src []byte) Compressed {
	freq := Frequencies(src)
	codes := Codes(freq)

	var bits strings.Builder
	for _, c := range src {
		bits.WriteString(codes[c])
	}

	data, n := bitstream.Pack(bits.String())
	return Compressed{Data: data, Frequencies: freq, BitLength: n}
}

// Decompress decodes c, reading exactly c.BitLength bits.
func Decompress(c Compressed) ([]byte, error) {
	bits, err := bitstream.Unpack(c.Data, c.BitLength)
	if err != nil {
		return nil, err
	}
	t := buildTree(c.Frequencies)
	if t == nil {
		if len(bits) > 0 {
			return nil, ErrCorrupt
		}
		return nil, nil
	}

	var out []byte
	if t.isLeaf(t.root) {
		sym := t.nodes[t.root].symbol
		for i := 0; i < len(bits); i++ {
			if bits[i] != '0' {
				return nil, ErrCorrupt
			}
			out = append(out, sym)
		}
		return out, nil
	}

	cur := t.root
	for i := 0; i < len(bits); i++ {
		if bits[i] == '0' {
			cur = t.nodes[cur].left
		} else {
			cur = t.nodes[cur].right
		}
		if t.isLeaf(cur) {
			out = append(out, t.nodes[cur].symbol)
			cur = t.root
		}
	}
	if cur != t.root {
		return nil, ErrCorrupt
	}
	return out, nil
}
