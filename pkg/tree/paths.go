package tree

import (
	"fmt"
	"io"
)

// Paths lists, in depth-first pre-order, the path of n and of every
// descendant accepted by filter. n's own path is prefix; a child's path is
// its parent's path followed by "/" and the child name.
func (n Node) Paths(prefix string, filter NodeFilter) []string {
	var out []string
	n.read(func(r *record) {
		n.t.collectPaths(n.id, prefix, filter, &out)
	})
	return out
}

func (t *Tree) collectPaths(id NodeID, path string, filter NodeFilter, out *[]string) {
	r := t.get(id)
	if r == nil {
		return
	}
	if filter.accepts(r.data) {
		*out = append(*out, path)
	}
	for _, c := range r.children {
		if cr := t.get(c); cr != nil {
			t.collectPaths(c, path+"/"+cr.name, filter, out)
		}
	}
}

// WritePaths writes Paths(prefix, filter) to w, one path per line. The lines
// are collected first so w is never written to while the tree is locked.
func (n Node) WritePaths(w io.Writer, prefix string, filter NodeFilter) error {
	for _, p := range n.Paths(prefix, filter) {
		if _, err := io.WriteString(w, p+"\n"); err != nil {
			return fmt.Errorf("%w: %w", ErrCannotWritePaths, err)
		}
	}
	return nil
}
