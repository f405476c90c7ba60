package tree

import (
	"strings"
	"unicode"
)

// Node is a handle on one node of a Tree. The zero Node refers to nothing.
// Handles are cheap to copy and compare; == is node identity.
type Node struct {
	t  *Tree
	id NodeID
}

// ID returns the arena id of the node.
func (n Node) ID() NodeID { return n.id }

// Tree returns the tree owning the node, or nil for the zero Node.
func (n Node) Tree() *Tree { return n.t }

// Valid reports whether the handle still refers to a live node.
func (n Node) Valid() bool {
	if n.t == nil {
		return false
	}
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	return n.t.get(n.id) != nil
}

func (n Node) read(fn func(r *record)) bool {
	if n.t == nil {
		return false
	}
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	r := n.t.get(n.id)
	if r == nil {
		return false
	}
	fn(r)
	return true
}

func (n Node) write(fn func(r *record) error) error {
	if n.t == nil {
		return ErrStaleNode
	}
	n.t.mu.Lock()
	defer n.t.mu.Unlock()
	r := n.t.get(n.id)
	if r == nil {
		return ErrStaleNode
	}
	return fn(r)
}

// Name returns the trimmed node name.
func (n Node) Name() (name string) {
	n.read(func(r *record) { name = r.name })
	return name
}

// Icon returns the node icon.
func (n Node) Icon() (icon string) {
	n.read(func(r *record) { icon = r.icon })
	return icon
}

// IsExpanded reports whether the node's children are shown.
func (n Node) IsExpanded() (expanded bool) {
	n.read(func(r *record) { expanded = r.expanded })
	return expanded
}

// Data returns a copy of the node data, if any.
func (n Node) Data() (d Data, ok bool) {
	n.read(func(r *record) {
		if r.data != nil {
			d, ok = *r.data, true
		}
	})
	return d, ok
}

// SetName trims name and replaces the node name with it.
func (n Node) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return n.write(func(r *record) error {
		r.name = name
		return nil
	})
}

// SetIcon left-trims icon and replaces the node icon with it.
func (n Node) SetIcon(icon string) {
	icon = strings.TrimLeftFunc(icon, unicode.IsSpace)
	_ = n.write(func(r *record) error {
		r.icon = icon
		return nil
	})
}

// SetData replaces the node data. Links may replace links; file data is
// never overwritten and the data kind never changes in place.
func (n Node) SetData(d Data) error {
	return n.write(func(r *record) error {
		if err := checkSetData(r.data, d); err != nil {
			return err
		}
		r.data = &d
		return nil
	})
}

// SetExpanded shows or hides the node's children.
func (n Node) SetExpanded(expanded bool) {
	_ = n.write(func(r *record) error {
		r.expanded = expanded
		return nil
	})
}

// ToggleExpand flips the expanded flag.
func (n Node) ToggleExpand() {
	_ = n.write(func(r *record) error {
		r.expanded = !r.expanded
		return nil
	})
}

// IsRoot reports whether n is its tree's root.
func (n Node) IsRoot() bool {
	if n.t == nil {
		return false
	}
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	return n.id == n.t.root && n.t.get(n.id) != nil
}

// Parent returns the node's parent, or ErrNoParent for a root or detached
// node.
func (n Node) Parent() (Node, error) {
	if n.t == nil {
		return Node{}, ErrStaleNode
	}
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	r := n.t.get(n.id)
	if r == nil {
		return Node{}, ErrStaleNode
	}
	if n.t.get(r.parent) == nil {
		return Node{}, ErrNoParent
	}
	return Node{t: n.t, id: r.parent}, nil
}

func (n Node) link(pick func(r *record) NodeID) (Node, bool) {
	var id NodeID
	ok := n.read(func(r *record) {
		if id = pick(r); n.t.get(id) == nil {
			id = NodeID{}
		}
	})
	if !ok || id.IsZero() {
		return Node{}, false
	}
	return Node{t: n.t, id: id}, true
}

// Prev returns the previous sibling.
func (n Node) Prev() (Node, bool) {
	return n.link(func(r *record) NodeID { return r.prev })
}

// Next returns the next sibling.
func (n Node) Next() (Node, bool) {
	return n.link(func(r *record) NodeID { return r.next })
}

// FirstChild returns the first child.
func (n Node) FirstChild() (Node, bool) {
	return n.link(func(r *record) NodeID {
		if len(r.children) == 0 {
			return NodeID{}
		}
		return r.children[0]
	})
}

// LastChild returns the last child.
func (n Node) LastChild() (Node, bool) {
	return n.link(func(r *record) NodeID {
		if len(r.children) == 0 {
			return NodeID{}
		}
		return r.children[len(r.children)-1]
	})
}

// Children returns the children in order.
func (n Node) Children() []Node {
	var out []Node
	n.read(func(r *record) {
		out = make([]Node, len(r.children))
		for i, c := range r.children {
			out[i] = Node{t: n.t, id: c}
		}
	})
	return out
}

// ChildCount returns the number of children.
func (n Node) ChildCount() (count int) {
	n.read(func(r *record) { count = len(r.children) })
	return count
}

// Depth returns the number of ancestors of n.
func (n Node) Depth() (depth int) {
	n.read(func(r *record) {
		for p := n.t.get(r.parent); p != nil; p = n.t.get(p.parent) {
			depth++
		}
	})
	return depth
}

// Path returns the slash-joined names from the root down to n, or "/" for the
// root itself. Detached nodes yield a path relative to their topmost ancestor.
func (n Node) Path() string {
	var names []string
	n.read(func(r *record) {
		for ; ; r = n.t.get(r.parent) {
			if n.t.get(r.parent) == nil {
				break
			}
			names = append(names, r.name)
		}
	})
	if len(names) == 0 {
		return "/"
	}
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(names[i])
	}
	return b.String()
}

// Contains reports whether other is n or one of its descendants.
func (n Node) Contains(other Node) bool {
	if n.t == nil || n.t != other.t {
		return false
	}
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	return n.t.isAncestorOrSelf(n.id, other.id)
}

// InsertTop attaches child as n's first child.
func (n Node) InsertTop(child Node) error {
	return n.insert(child, func(t *Tree, _ *record) (NodeID, int, error) {
		return n.id, 0, nil
	})
}

// InsertBottom attaches child as n's last child.
func (n Node) InsertBottom(child Node) error {
	return n.insert(child, func(t *Tree, r *record) (NodeID, int, error) {
		return n.id, len(r.children), nil
	})
}

// InsertBefore attaches sibling right before n under n's parent.
func (n Node) InsertBefore(sibling Node) error {
	return n.insert(sibling, func(t *Tree, r *record) (NodeID, int, error) {
		if t.get(r.parent) == nil {
			return NodeID{}, 0, ErrNoParent
		}
		idx := t.indexOf(r.parent, n.id)
		if idx < 0 {
			return NodeID{}, 0, ErrNotContainedInParent
		}
		return r.parent, idx, nil
	})
}

// InsertAfter attaches sibling right after n under n's parent.
func (n Node) InsertAfter(sibling Node) error {
	return n.insert(sibling, func(t *Tree, r *record) (NodeID, int, error) {
		if t.get(r.parent) == nil {
			return NodeID{}, 0, ErrNoParent
		}
		idx := t.indexOf(r.parent, n.id)
		if idx < 0 {
			return NodeID{}, 0, ErrNotContainedInParent
		}
		return r.parent, idx + 1, nil
	})
}

// insert resolves the target parent and position under the write lock, checks
// that child may be attached there and links it in.
func (n Node) insert(child Node, target func(t *Tree, r *record) (NodeID, int, error)) error {
	t := n.t
	if t == nil {
		return ErrStaleNode
	}
	if child.t != t {
		return ErrForeignNode
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.get(n.id)
	if r == nil {
		return ErrStaleNode
	}
	parent, idx, err := target(t, r)
	if err != nil {
		return err
	}

	c := t.get(child.id)
	if c == nil {
		return ErrStaleNode
	}
	if t.get(c.parent) != nil || child.id == t.root {
		return ErrAlreadyAttached
	}
	if t.isAncestorOrSelf(child.id, parent) {
		return ErrCycle
	}
	t.linkAt(parent, idx, child.id)
	return nil
}

// Delete removes child from n's children and frees it with its subtree.
// Handles on the removed nodes become stale.
func (n Node) Delete(child Node) error {
	return n.write(func(r *record) error {
		if child.t != n.t {
			return ErrNotContainedInParent
		}
		if err := n.t.unlink(n.id, child.id); err != nil {
			return err
		}
		n.t.freeSubtree(child.id)
		return nil
	})
}

// detach is Delete without freeing: child stays usable as a detached node.
func (n Node) detach(child Node) error {
	return n.write(func(r *record) error {
		if child.t != n.t {
			return ErrNotContainedInParent
		}
		return n.t.unlink(n.id, child.id)
	})
}

// MoveTop detaches m from its parent and inserts it as n's first child.
//
// Moves are two separate steps. If the insert fails (for instance because n
// lies inside m's subtree) m is left detached and the caller decides what to
// do with it.
func (n Node) MoveTop(m Node) error {
	return moveWith(m, func() error { return n.InsertTop(m) })
}

// MoveBottom detaches m and inserts it as n's last child. See MoveTop.
func (n Node) MoveBottom(m Node) error {
	return moveWith(m, func() error { return n.InsertBottom(m) })
}

// MoveBefore detaches m and inserts it right before n. See MoveTop.
func (n Node) MoveBefore(m Node) error {
	return moveWith(m, func() error { return n.InsertBefore(m) })
}

// MoveAfter detaches m and inserts it right after n. See MoveTop.
func (n Node) MoveAfter(m Node) error {
	return moveWith(m, func() error { return n.InsertAfter(m) })
}

func moveWith(m Node, insert func() error) error {
	parent, err := m.Parent()
	if err != nil {
		return err
	}
	if err := parent.detach(m); err != nil {
		return err
	}
	return insert()
}

// isAncestorOrSelf reports whether anc is id or one of its ancestors.
func (t *Tree) isAncestorOrSelf(anc, id NodeID) bool {
	for cur := id; ; {
		if cur == anc {
			return true
		}
		r := t.get(cur)
		if r == nil {
			return false
		}
		cur = r.parent
	}
}
