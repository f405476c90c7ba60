package tree

import "errors"

// Structural errors.
var (
	ErrNoParent             = errors.New("node has no parent")
	ErrNotContainedInParent = errors.New("node is not a child of this parent")
	ErrAlreadyAttached      = errors.New("node is already attached to a parent")
	ErrForeignNode          = errors.New("node belongs to another tree")
	ErrCycle                = errors.New("node cannot be inserted into its own subtree")
	ErrStaleNode            = errors.New("node no longer exists")
)

// Validation and data errors.
var (
	ErrEmptyName             = errors.New("node name cannot be empty")
	ErrNoData                = errors.New("node has no data to update")
	ErrFileDataAlreadyExists = errors.New("node already has file data")
	ErrMismatchDataType      = errors.New("node data has a different type")
)

// ErrCannotWritePaths wraps the writer error returned by WritePaths.
var ErrCannotWritePaths = errors.New("cannot write paths")
