package chain

import "errors"

// Construction errors, returned once when a descriptor is built
var (
	ErrInvalidDescriptor = errors.New("invalid chain descriptor")
	ErrEmptyChain        = errors.New("chain has no links")
	ErrEmptyName         = errors.New("link name is empty")
	ErrDuplicateLink     = errors.New("duplicate link name")
	ErrDanglingParent    = errors.New("parent link does not exist")
	ErrCycle             = errors.New("parent relation contains a cycle")
	ErrNoRoot            = errors.New("chain has no root link")
	ErrMultipleRoots     = errors.New("chain has more than one root link")
)

// Usage errors, returned by the call that introduced them
var (
	ErrUnknownJoint      = errors.New("unknown joint")
	ErrUnknownLink       = errors.New("unknown link")
	ErrKindMismatch      = errors.New("joint value kind does not match joint")
	ErrDimensionMismatch = errors.New("configuration vector length does not match DOF count")
)
