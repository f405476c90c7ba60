package tree

import "github.com/vanderheijden86/mind/pkg/encoding"

// FromEncoding rebuilds a tree from its wire form. Parent and sibling links
// are set up as children are attached; each node's name is the last entry of
// its contents.
func FromEncoding(enc encoding.Tree) *Tree {
	t := &Tree{version: enc.Version, kind: enc.Type}
	t.root = t.decode(enc.Node)
	return t
}

func (t *Tree) decode(en encoding.Node) NodeID {
	id := t.alloc(en.Name(), en.Icon)
	r := t.get(id)
	r.expanded = en.IsExpanded
	switch {
	case en.Data != nil:
		r.data = &Data{Kind: KindFile, Value: *en.Data}
	case en.URL != nil:
		r.data = &Data{Kind: KindLink, Value: *en.URL}
	}
	for _, child := range en.Children {
		cid := t.decode(child)
		t.linkAt(id, len(t.get(id).children), cid)
	}
	return id
}

// Encoding copies the tree into its wire form.
func (t *Tree) Encoding() encoding.Tree {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return encoding.Tree{
		Version: t.version,
		Type:    t.kind,
		Node:    t.encode(t.root),
	}
}

func (t *Tree) encode(id NodeID) encoding.Node {
	r := t.get(id)
	en := encoding.NewNode(r.name)
	en.Icon = r.icon
	en.IsExpanded = r.expanded
	if r.data != nil {
		v := r.data.Value
		switch r.data.Kind {
		case KindFile:
			en.Data = &v
		case KindLink:
			en.URL = &v
		}
	}
	en.Children = make([]encoding.Node, 0, len(r.children))
	for _, c := range r.children {
		if t.get(c) != nil {
			en.Children = append(en.Children, t.encode(c))
		}
	}
	return en
}

// MarshalJSON encodes the tree in its wire form.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return encoding.Marshal(t.Encoding())
}

// UnmarshalJSON replaces the tree's content with the decoded document.
// Handles taken before the call become stale.
func (t *Tree) UnmarshalJSON(data []byte) error {
	enc, err := encoding.Unmarshal(data)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Old slots are recycled through the free list, which bumps their
	// generation.
	t.free = t.free[:0]
	for i := len(t.slots) - 1; i >= 0; i-- {
		t.slots[i] = record{gen: t.slots[i].gen}
		t.free = append(t.free, uint32(i))
	}
	t.version = enc.Version
	t.kind = enc.Type
	t.root = t.decode(enc.Node)
	return nil
}
