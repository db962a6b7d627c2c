// Package chain describes an articulated rig: a tree of rigid links joined by
// rotational joints, the dense indexing of its degrees of freedom, and the
// conversion between named configurations and configuration vectors.
//
// A Descriptor is built once from a list of LinkSpec records and is immutable
// afterwards; it is safe to share between goroutines.
package chain

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// LinkSpec is the authoring record of one link, as produced by a rig exporter
type LinkSpec struct {
	Name string
	// Parent is the name of the parent link, empty for the root
	Parent string
	// Offset is the rest-pose transform relative to the parent link
	Offset mgl64.Mat4
	Joint  JointKind
	Axis   Axis
}

// Link is a validated link stored in the descriptor arena
type Link struct {
	Name string
	// Parent is the arena index of the parent link, -1 for the root
	Parent   int
	Offset   mgl64.Mat4
	Joint    JointKind
	Axis     Axis
	Children []int
}

// IsEffector reports whether the link is a leaf
func (l Link) IsEffector() bool {
	return len(l.Children) == 0
}

// Descriptor is the immutable topology and rest-pose geometry of a rig.
// Links are stored root first, every parent before its children.
type Descriptor struct {
	links     []Link
	byName    map[string]int
	order     RotationOrder
	effectors []string
	dofs      *DOFIndex
}

type Option func(*Descriptor)

// WithRotationOrder selects the composition order of FreeAxis3 joints
func WithRotationOrder(order RotationOrder) Option {
	return func(d *Descriptor) {
		d.order = order
	}
}

// New validates specs and builds a descriptor.
// It fails on an empty chain, empty or duplicate names, dangling parents,
// missing or multiple roots and cycles.
func New(specs []LinkSpec, opts ...Option) (*Descriptor, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyChain
	}

	specIndex := make(map[string]int, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: link #%d", ErrEmptyName, i)
		}
		if _, ok := specIndex[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLink, s.Name)
		}
		specIndex[s.Name] = i
	}

	root := -1
	children := make([][]int, len(specs))
	for i, s := range specs {
		if s.Parent == "" {
			if root != -1 {
				return nil, fmt.Errorf("%w: %q and %q", ErrMultipleRoots, specs[root].Name, s.Name)
			}
			root = i
			continue
		}
		p, ok := specIndex[s.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: %q (parent of %q)", ErrDanglingParent, s.Parent, s.Name)
		}
		children[p] = append(children[p], i)
	}
	if root == -1 {
		// every link has a parent, so the parent relation must loop
		return nil, fmt.Errorf("%w: %w", ErrNoRoot, ErrCycle)
	}

	// breadth first from the root; anything not reached hangs off a cycle
	order := make([]int, 0, len(specs))
	order = append(order, root)
	for head := 0; head < len(order); head++ {
		order = append(order, children[order[head]]...)
	}
	if len(order) != len(specs) {
		reached := make([]bool, len(specs))
		for _, i := range order {
			reached[i] = true
		}
		for i, s := range specs {
			if !reached[i] {
				return nil, fmt.Errorf("%w: link %q is not reachable from root %q", ErrCycle, s.Name, specs[root].Name)
			}
		}
	}

	d := &Descriptor{
		links:  make([]Link, len(order)),
		byName: make(map[string]int, len(order)),
	}
	for _, opt := range opts {
		opt(d)
	}

	arena := make([]int, len(specs))
	for at, i := range order {
		arena[i] = at
	}
	for at, i := range order {
		s := specs[i]
		parent := -1
		if s.Parent != "" {
			parent = arena[specIndex[s.Parent]]
		}
		kids := make([]int, len(children[i]))
		for k, c := range children[i] {
			kids[k] = arena[c]
		}
		d.links[at] = Link{
			Name:     s.Name,
			Parent:   parent,
			Offset:   s.Offset,
			Joint:    s.Joint,
			Axis:     s.Axis,
			Children: kids,
		}
		d.byName[s.Name] = at
		if len(kids) == 0 {
			d.effectors = append(d.effectors, s.Name)
		}
	}
	sort.Strings(d.effectors)

	d.dofs = NewDOFIndex(d)

	return d, nil
}

// Len returns the number of links
func (d *Descriptor) Len() int {
	return len(d.links)
}

// Link returns the link stored at arena index i
func (d *Descriptor) Link(i int) Link {
	return d.links[i]
}

// Lookup returns the arena index of the named link
func (d *Descriptor) Lookup(name string) (int, bool) {
	i, ok := d.byName[name]
	return i, ok
}

// Root returns the root link
func (d *Descriptor) Root() Link {
	return d.links[0]
}

// Links returns a copy of the links, root first
func (d *Descriptor) Links() []Link {
	out := make([]Link, len(d.links))
	copy(out, d.links)
	return out
}

// Effectors returns the names of the leaf links, sorted
func (d *Descriptor) Effectors() []string {
	out := make([]string, len(d.effectors))
	copy(out, d.effectors)
	return out
}

func (d *Descriptor) IsEffector(name string) bool {
	i, ok := d.byName[name]
	return ok && d.links[i].IsEffector()
}

// Order returns the FreeAxis3 rotation composition order
func (d *Descriptor) Order() RotationOrder {
	return d.order
}

// DOFs returns the degree of freedom index built with the descriptor
func (d *Descriptor) DOFs() *DOFIndex {
	return d.dofs
}
