package tree

// DataKind tells what a node's data points at.
type DataKind uint8

const (
	KindFile DataKind = iota + 1
	KindLink
)

func (k DataKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindLink:
		return "link"
	default:
		return "none"
	}
}

// Data is the optional payload of a node: a local file path or a URL.
type Data struct {
	Kind  DataKind
	Value string
}

// File returns file data for path.
func File(path string) Data { return Data{Kind: KindFile, Value: path} }

// Link returns link data for url.
func Link(url string) Data { return Data{Kind: KindLink, Value: url} }

// IsEmpty reports whether the data carries no path or URL.
func (d Data) IsEmpty() bool { return d.Value == "" }

func (d Data) String() string {
	return d.Kind.String() + ":" + d.Value
}

// checkSetData applies the replacement rules for node data: links can replace
// links, a file is never overwritten, kinds never change in place and an empty
// value cannot be set on a node without data.
func checkSetData(current *Data, next Data) error {
	if current == nil {
		if next.IsEmpty() {
			return ErrNoData
		}
		return nil
	}
	switch {
	case current.Kind == KindFile && next.Kind == KindFile:
		return ErrFileDataAlreadyExists
	case current.Kind == KindLink && next.Kind == KindLink:
		return nil
	default:
		return ErrMismatchDataType
	}
}
