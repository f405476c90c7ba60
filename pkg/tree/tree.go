// Package tree implements the in-memory mind tree: named, iconed nodes with
// optional file or link data, addressed by path (/a/b/c) or by visible line.
//
// Nodes live in an arena owned by their Tree and are referenced by
// generational ids, so parent and sibling links are plain integers. A Node is
// a small handle (tree pointer + id); two handles are the same node iff they
// compare equal with ==. Freeing a slot bumps its generation, which turns any
// id still pointing at it into "no such node".
//
// Every exported operation takes the tree lock once and is atomic on its own.
// The Move* family is a delete followed by an insert and is not.
package tree

import (
	"strings"
	"sync"
	"unicode"

	"github.com/vanderheijden86/mind/pkg/encoding"
)

// Type distinguishes global trees from local ones.
type Type = encoding.TreeType

const (
	TypeRoot  = encoding.TreeTypeRoot
	TypeLocal = encoding.TreeTypeLocal
)

// NodeID addresses a slot in a tree's arena. The zero value is "no node".
type NodeID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id refers to no node.
func (id NodeID) IsZero() bool { return id.gen == 0 }

type record struct {
	gen      uint32
	live     bool
	name     string
	icon     string
	expanded bool
	data     *Data

	parent   NodeID
	prev     NodeID
	next     NodeID
	children []NodeID
}

// Tree owns a root node and every node created through it.
type Tree struct {
	mu      sync.RWMutex
	slots   []record
	free    []uint32
	root    NodeID
	version encoding.Version
	kind    Type
}

// NewTree returns a tree with a fresh root node, the current format version
// and the root type.
func NewTree(name, icon string) *Tree {
	return newTree(name, icon, TypeRoot)
}

// NewLocalTree is NewTree for a tree stored next to a project rather than in
// the global forest.
func NewLocalTree(name, icon string) *Tree {
	return newTree(name, icon, TypeLocal)
}

func newTree(name, icon string, kind Type) *Tree {
	t := &Tree{version: encoding.CurrentVersion, kind: kind}
	t.root = t.alloc(name, icon)
	return t
}

// Version returns the format version the tree was created or decoded with.
func (t *Tree) Version() encoding.Version {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Type returns the tree type.
func (t *Tree) Type() Type {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.kind
}

// Root returns the root node.
func (t *Tree) Root() Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Node{t: t, id: t.root}
}

// NewNode creates a detached node in this tree's arena. The name is trimmed,
// the icon is left-trimmed and the node starts collapsed.
func (t *Tree) NewNode(name, icon string) Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Node{t: t, id: t.alloc(name, icon)}
}

// Release frees a detached node and its subtree. Nodes still attached to a
// parent, and the root, are left alone.
func (t *Tree) Release(n Node) error {
	if n.t != t {
		return ErrForeignNode
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	r := t.get(n.id)
	if r == nil {
		return ErrStaleNode
	}
	if t.get(r.parent) != nil || n.id == t.root {
		return ErrAlreadyAttached
	}
	t.freeSubtree(n.id)
	return nil
}

// Len returns the number of nodes reachable from the root.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	count := 0
	t.walk(t.root, 0, func(NodeID, int) bool {
		count++
		return true
	})
	return count
}

// NodeInfo is a copy of one node's fields taken while the tree was locked.
type NodeInfo struct {
	Node       Node
	Name       string
	Icon       string
	Expanded   bool
	Data       *Data
	Depth      int
	Line       int // -1 unless produced by VisibleNodes
	Path       string
	ChildCount int
}

// Walk visits every node reachable from the root in depth-first pre-order.
// Returning false from fn skips the node's children. fn receives copies and
// runs under the read lock, so it must not mutate the tree.
func (t *Tree) Walk(fn func(NodeInfo) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.walkInfo(t.root, 0, "", fn)
}

// VisibleNodes returns the nodes that currently occupy a line, in line order.
func (t *Tree) VisibleNodes() []NodeInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var rows []NodeInfo
	t.walkInfo(t.root, 0, "", func(info NodeInfo) bool {
		info.Line = len(rows)
		rows = append(rows, info)
		return info.Expanded
	})
	return rows
}

func (t *Tree) walkInfo(id NodeID, depth int, path string, fn func(NodeInfo) bool) {
	r := t.get(id)
	if r == nil {
		return
	}
	if depth > 0 {
		path += "/" + r.name
	}
	info := NodeInfo{
		Node:       Node{t: t, id: id},
		Name:       r.name,
		Icon:       r.icon,
		Expanded:   r.expanded,
		Depth:      depth,
		Line:       -1,
		Path:       path,
		ChildCount: len(r.children),
	}
	if r.data != nil {
		d := *r.data
		info.Data = &d
	}
	if !fn(info) {
		return
	}
	for _, c := range r.children {
		t.walkInfo(c, depth+1, path, fn)
	}
}

// GetNodeByLine returns the node shown on the given 0-based line. Every node
// takes one line; the descendants of a collapsed node take none.
func (t *Tree) GetNodeByLine(line int) (Node, bool) {
	if line < 0 {
		return Node{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	current := 0
	var found NodeID
	t.walkVisible(t.root, func(id NodeID) bool {
		if current == line {
			found = id
			return false
		}
		current++
		return true
	})
	if found.IsZero() {
		return Node{}, false
	}
	return Node{t: t, id: found}, true
}

// LineOf returns the line n is shown on, or false when n is hidden under a
// collapsed ancestor or is not part of the tree.
func (t *Tree) LineOf(n Node) (int, bool) {
	if n.t != t {
		return 0, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	line, current := -1, 0
	t.walkVisible(t.root, func(id NodeID) bool {
		if id == n.id {
			line = current
			return false
		}
		current++
		return true
	})
	return line, line >= 0
}

// VisibleLen returns the number of lines the tree currently takes.
func (t *Tree) VisibleLen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	count := 0
	t.walkVisible(t.root, func(NodeID) bool {
		count++
		return true
	})
	return count
}

// GetNodeByPath walks the root's descendants, matching each segment against a
// child's name. With autoCreate, a missing child is created with that name and
// an empty icon and the walk continues; otherwise a miss returns false.
// Blank segments are skipped.
func (t *Tree) GetNodeByPath(segments []string, autoCreate bool) (Node, bool) {
	if autoCreate {
		t.mu.Lock()
		defer t.mu.Unlock()
	} else {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}

	current := t.root
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		next, ok := t.childByName(current, seg)
		if !ok {
			if !autoCreate {
				return Node{}, false
			}
			next = t.alloc(seg, "")
			t.linkAt(current, len(t.get(current).children), next)
		}
		current = next
	}
	return Node{t: t, id: current}, true
}

// PathSegments splits a textual selector such as "/a/ b //c" into its
// trimmed, non-empty segments.
func PathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// arena helpers; callers hold t.mu.

func (t *Tree) alloc(name, icon string) NodeID {
	r := record{
		live: true,
		name: strings.TrimSpace(name),
		icon: strings.TrimLeftFunc(icon, unicode.IsSpace),
	}
	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		r.gen = t.slots[idx].gen + 1
		t.slots[idx] = r
		return NodeID{index: idx, gen: r.gen}
	}
	r.gen = 1
	t.slots = append(t.slots, r)
	return NodeID{index: uint32(len(t.slots) - 1), gen: 1}
}

func (t *Tree) get(id NodeID) *record {
	if id.IsZero() || int(id.index) >= len(t.slots) {
		return nil
	}
	r := &t.slots[id.index]
	if !r.live || r.gen != id.gen {
		return nil
	}
	return r
}

func (t *Tree) freeSubtree(id NodeID) {
	r := t.get(id)
	if r == nil {
		return
	}
	children := r.children
	*r = record{gen: r.gen}
	t.free = append(t.free, id.index)
	for _, c := range children {
		t.freeSubtree(c)
	}
}

func (t *Tree) childByName(parent NodeID, name string) (NodeID, bool) {
	p := t.get(parent)
	if p == nil {
		return NodeID{}, false
	}
	for _, c := range p.children {
		if cr := t.get(c); cr != nil && cr.name == name {
			return c, true
		}
	}
	return NodeID{}, false
}

func (t *Tree) indexOf(parent, child NodeID) int {
	p := t.get(parent)
	if p == nil {
		return -1
	}
	for i, c := range p.children {
		if c == child {
			return i
		}
	}
	return -1
}

// linkAt places child at position idx of parent's children and fixes the
// sibling chain around it.
func (t *Tree) linkAt(parent NodeID, idx int, child NodeID) {
	p := t.get(parent)
	p.children = append(p.children, NodeID{})
	copy(p.children[idx+1:], p.children[idx:])
	p.children[idx] = child

	c := t.get(child)
	c.parent = parent
	c.prev, c.next = NodeID{}, NodeID{}
	if idx > 0 {
		c.prev = p.children[idx-1]
		t.get(c.prev).next = child
	}
	if idx+1 < len(p.children) {
		c.next = p.children[idx+1]
		t.get(c.next).prev = child
	}
}

// unlink removes child from parent's children and splices the sibling chain.
func (t *Tree) unlink(parent, child NodeID) error {
	idx := t.indexOf(parent, child)
	if idx < 0 {
		return ErrNotContainedInParent
	}
	p := t.get(parent)
	p.children = append(p.children[:idx], p.children[idx+1:]...)

	c := t.get(child)
	if prev := t.get(c.prev); prev != nil {
		prev.next = c.next
	}
	if next := t.get(c.next); next != nil {
		next.prev = c.prev
	}
	c.parent, c.prev, c.next = NodeID{}, NodeID{}, NodeID{}
	return nil
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	r := t.get(id)
	if r == nil || !fn(id, depth) {
		return
	}
	for _, c := range r.children {
		t.walk(c, depth+1, fn)
	}
}

// walkVisible visits the nodes that occupy a line, in line order, until fn
// returns false.
func (t *Tree) walkVisible(id NodeID, fn func(NodeID) bool) bool {
	r := t.get(id)
	if r == nil {
		return true
	}
	if !fn(id) {
		return false
	}
	if !r.expanded {
		return true
	}
	for _, c := range r.children {
		if !t.walkVisible(c, fn) {
			return false
		}
	}
	return true
}
