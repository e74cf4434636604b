package config

import "strings"

// Both parser strategies reduce the configuration document to this generic
// tree before any model fields are mapped. Keeping the representation shared
// is what lets the loader assert that the structured and fallback strategies
// agree on the same document.

type nodeKind int

const (
	scalarNode nodeKind = iota
	mappingNode
	sequenceNode
)

type node struct {
	kind  nodeKind
	value string // scalarNode only

	// mappingNode: keys preserves declaration order, children the values.
	keys     []string
	children map[string]*node

	// sequenceNode
	items []*node
}

func newMapping() *node {
	return &node{kind: mappingNode, children: make(map[string]*node)}
}

func newScalar(v string) *node {
	return &node{kind: scalarNode, value: v}
}

func (n *node) put(key string, child *node) {
	if _, exists := n.children[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// child returns the mapping entry for key, or nil.
func (n *node) child(key string) *node {
	if n == nil || n.kind != mappingNode {
		return nil
	}
	return n.children[key]
}

func (n *node) scalar() (string, bool) {
	if n == nil || n.kind != scalarNode {
		return "", false
	}
	return n.value, true
}

// stringSlice flattens a sequence of scalars.
func (n *node) stringSlice() ([]string, bool) {
	if n == nil || n.kind != sequenceNode {
		return nil, false
	}
	out := make([]string, 0, len(n.items))
	for _, item := range n.items {
		v, ok := item.scalar()
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// nestedStringSlices flattens a sequence of sequences of scalars.
func (n *node) nestedStringSlices() ([][]string, bool) {
	if n == nil || n.kind != sequenceNode {
		return nil, false
	}
	out := make([][]string, 0, len(n.items))
	for _, item := range n.items {
		inner, ok := item.stringSlice()
		if !ok {
			return nil, false
		}
		out = append(out, inner)
	}
	return out, true
}

// render produces the single-string form of a node used by the key-value
// view: scalars verbatim, sequences of scalars space-joined (matching how
// list values are consumed by shell callers).
func (n *node) render() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.kind {
	case scalarNode:
		return n.value, true
	case sequenceNode:
		parts, ok := n.stringSlice()
		if !ok {
			return "", false
		}
		return strings.Join(parts, " "), true
	default:
		return "", false
	}
}

// View exposes the raw document as dotted-path key lookups for the resolver.
type View interface {
	Lookup(key string) (string, bool)
}

type nodeView struct {
	root *node
}

func (v nodeView) Lookup(key string) (string, bool) {
	cur := v.root
	for _, part := range strings.Split(key, ".") {
		cur = cur.child(part)
		if cur == nil {
			return "", false
		}
	}
	return cur.render()
}
