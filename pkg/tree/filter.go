package tree

// NodeFilter selects nodes by the kind of data they carry.
type NodeFilter uint8

const (
	FilterAlways NodeFilter = iota
	FilterFileOrLink
	FilterFileOnly
	FilterLinkOnly
)

// NewNodeFilter builds a filter from the --file/--uri style flag pair.
func NewNodeFilter(file, uri bool) NodeFilter {
	switch {
	case file && uri:
		return FilterFileOrLink
	case file:
		return FilterFileOnly
	case uri:
		return FilterLinkOnly
	default:
		return FilterAlways
	}
}

func (f NodeFilter) String() string {
	switch f {
	case FilterFileOrLink:
		return "file-or-link"
	case FilterFileOnly:
		return "file"
	case FilterLinkOnly:
		return "link"
	default:
		return "always"
	}
}

// Accepts reports whether n passes the filter, based on its current data.
func (f NodeFilter) Accepts(n Node) bool {
	d, ok := n.Data()
	if !ok {
		return f.accepts(nil)
	}
	return f.accepts(&d)
}

func (f NodeFilter) accepts(d *Data) bool {
	switch f {
	case FilterFileOrLink:
		return d != nil
	case FilterFileOnly:
		return d != nil && d.Kind == KindFile
	case FilterLinkOnly:
		return d != nil && d.Kind == KindLink
	default:
		return true
	}
}
