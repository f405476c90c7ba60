package tree

// Cursor points at a current node and moves it around the tree. It does not
// own anything; moving it never changes the tree.
type Cursor struct {
	node Node
}

// NewCursor returns a cursor on n.
func NewCursor(n Node) *Cursor {
	return &Cursor{node: n}
}

// Node returns the current node.
func (c *Cursor) Node() Node { return c.node }

// Set moves the cursor to n unconditionally.
func (c *Cursor) Set(n Node) { c.node = n }

func (c *Cursor) moveTo(n Node, ok bool) bool {
	if ok {
		c.node = n
	}
	return ok
}

// Parent moves to the parent node.
func (c *Cursor) Parent() bool {
	p, err := c.node.Parent()
	return c.moveTo(p, err == nil)
}

// PrevSibling moves to the previous sibling.
func (c *Cursor) PrevSibling() bool {
	return c.moveTo(c.node.Prev())
}

// NextSibling moves to the next sibling.
func (c *Cursor) NextSibling() bool {
	return c.moveTo(c.node.Next())
}

// FirstChild moves to the first child, whether or not it is visible.
func (c *Cursor) FirstChild() bool {
	return c.moveTo(c.node.FirstChild())
}

// VisualPrev moves to the node shown on the line above: the previous sibling's
// deepest visible last descendant, or the parent when there is no previous
// sibling.
func (c *Cursor) VisualPrev() bool {
	if prev, ok := c.node.Prev(); ok {
		for prev.IsExpanded() {
			last, ok := prev.LastChild()
			if !ok {
				break
			}
			prev = last
		}
		c.node = prev
		return true
	}
	return c.Parent()
}

// VisualNext moves to the node shown on the line below. It returns false,
// leaving the cursor where it is, on the last visible line.
func (c *Cursor) VisualNext() bool {
	if c.node.IsExpanded() {
		if child, ok := c.node.FirstChild(); ok {
			c.node = child
			return true
		}
	}
	for n := c.node; ; {
		if next, ok := n.Next(); ok {
			c.node = next
			return true
		}
		p, err := n.Parent()
		if err != nil {
			return false
		}
		n = p
	}
}
