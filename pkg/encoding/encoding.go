// Package encoding defines the on-disk wire form of a mind tree.
//
// The types here are plain values with no graph links. A tree is converted to
// this form right before serialization and rebuilt from it right after
// parsing; nothing else in the module touches JSON directly.
//
// Wire layout:
//
//	{
//	  "version": 1,
//	  "type": 0,
//	  "icon": "",
//	  "is_expanded": true,
//	  "contents": [{"text": "root"}],
//	  "children": [...],
//	  "data": "/path/to/file",   // optional
//	  "url": "https://..."       // optional
//	}
package encoding

import (
	"errors"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// Version is the document format version.
type Version uint16

// CurrentVersion is written by new trees and assumed when a document omits it.
const CurrentVersion Version = 1

// TreeType tells a global (main or per-directory) tree from a local one.
// It serializes as its numeric discriminant.
type TreeType uint8

const (
	TreeTypeRoot  TreeType = 0
	TreeTypeLocal TreeType = 1
)

// Decode errors.
var (
	ErrUnknownTreeType = errors.New("unknown tree type")
	ErrMissingTreeType = errors.New("missing tree type")
	ErrMissingContents = errors.New("missing node contents")
)

func (t TreeType) String() string {
	switch t {
	case TreeTypeRoot:
		return "root"
	case TreeTypeLocal:
		return "local"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// MarshalJSON writes the numeric discriminant.
func (t TreeType) MarshalJSON() ([]byte, error) {
	if t != TreeTypeRoot && t != TreeTypeLocal {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTreeType, uint8(t))
	}
	return []byte(strconv.Itoa(int(t))), nil
}

// UnmarshalJSON accepts 0 or 1 and rejects everything else.
func (t *TreeType) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseUint(string(b), 10, 8)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownTreeType, b)
	}
	switch TreeType(v) {
	case TreeTypeRoot, TreeTypeLocal:
		*t = TreeType(v)
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTreeType, v)
	}
}

// Text is one entry of a node's contents list.
type Text struct {
	Text string `json:"text"`
}

// Node is the wire form of a single node and its subtree.
type Node struct {
	Icon       string  `json:"icon"`
	IsExpanded bool    `json:"is_expanded"`
	Contents   []Text  `json:"contents"`
	Children   []Node  `json:"children"`
	Data       *string `json:"data,omitempty"`
	URL        *string `json:"url,omitempty"`
}

// NewNode returns a wire node carrying name as its single contents entry.
func NewNode(name string) Node {
	return Node{
		Contents: []Text{{Text: name}},
		Children: []Node{},
	}
}

// Name returns the last contents entry. Earlier entries are ignored; an empty
// contents list yields the empty name.
func (n Node) Name() string {
	if len(n.Contents) == 0 {
		return ""
	}
	return n.Contents[len(n.Contents)-1].Text
}

// nodeFields is the decode shape of a node. Contents is a pointer so a
// missing key can be told from an empty list.
type nodeFields struct {
	Icon       string  `json:"icon"`
	IsExpanded bool    `json:"is_expanded"`
	Contents   *[]Text `json:"contents"`
	Children   []Node  `json:"children"`
	Data       *string `json:"data"`
	URL        *string `json:"url"`
}

func (f nodeFields) node() (Node, error) {
	if f.Contents == nil {
		return Node{}, ErrMissingContents
	}
	children := f.Children
	if children == nil {
		children = []Node{}
	}
	return Node{
		Icon:       f.Icon,
		IsExpanded: f.IsExpanded,
		Contents:   *f.Contents,
		Children:   children,
		Data:       f.Data,
		URL:        f.URL,
	}, nil
}

// UnmarshalJSON requires the contents key.
func (n *Node) UnmarshalJSON(b []byte) error {
	var f nodeFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	node, err := f.node()
	if err != nil {
		return err
	}
	*n = node
	return nil
}

// Tree is the wire form of a whole tree: header fields plus the root node's
// fields flattened into the same object.
type Tree struct {
	Version Version  `json:"version"`
	Type    TreeType `json:"type"`
	Node
}

// treeFields is the flat encode shape of a Tree. go-json cannot compile an
// encoder for a struct embedding the recursive Node.
type treeFields struct {
	Version    Version  `json:"version"`
	Type       TreeType `json:"type"`
	Icon       string   `json:"icon"`
	IsExpanded bool     `json:"is_expanded"`
	Contents   []Text   `json:"contents"`
	Children   []Node   `json:"children"`
	Data       *string  `json:"data,omitempty"`
	URL        *string  `json:"url,omitempty"`
}

// MarshalJSON writes the header and the root node as one object.
func (t Tree) MarshalJSON() ([]byte, error) {
	contents := t.Contents
	if contents == nil {
		contents = []Text{}
	}
	children := t.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(treeFields{
		Version:    t.Version,
		Type:       t.Type,
		Icon:       t.Icon,
		IsExpanded: t.IsExpanded,
		Contents:   contents,
		Children:   children,
		Data:       t.Data,
		URL:        t.URL,
	})
}

// UnmarshalJSON defaults a missing version and requires the type and
// contents fields.
func (t *Tree) UnmarshalJSON(b []byte) error {
	var raw struct {
		Version    *Version  `json:"version"`
		Type       *TreeType `json:"type"`
		Icon       string    `json:"icon"`
		IsExpanded bool      `json:"is_expanded"`
		Contents   *[]Text   `json:"contents"`
		Children   []Node    `json:"children"`
		Data       *string   `json:"data"`
		URL        *string   `json:"url"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Type == nil {
		return ErrMissingTreeType
	}
	root, err := nodeFields{
		Icon:       raw.Icon,
		IsExpanded: raw.IsExpanded,
		Contents:   raw.Contents,
		Children:   raw.Children,
		Data:       raw.Data,
		URL:        raw.URL,
	}.node()
	if err != nil {
		return err
	}

	t.Version = CurrentVersion
	if raw.Version != nil {
		t.Version = *raw.Version
	}
	t.Type = *raw.Type
	t.Node = root
	return nil
}

// Marshal serializes a wire tree.
func Marshal(t Tree) ([]byte, error) {
	return json.Marshal(t)
}

// MarshalIndent serializes a wire tree with indentation, for files a human
// may read or diff.
func MarshalIndent(t Tree) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Unmarshal parses a wire tree.
func Unmarshal(data []byte) (Tree, error) {
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return Tree{}, err
	}
	return t, nil
}
