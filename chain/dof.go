package chain

import (
	"fmt"
	"sort"
)

var axisSuffix = [3]string{"/x", "/y", "/z"}

type jointSlot struct {
	name   string
	kind   JointKind
	link   int
	offset int
}

// DOFIndex maps joint axes to positions in a dense configuration vector.
//
// Joints are sorted by name; a SingleAxis joint takes one slot labelled with
// its name, a FreeAxis3 joint takes three slots labelled name/x, name/y and
// name/z. The assignment depends only on the set of joints and their kinds.
type DOFIndex struct {
	index    map[string]int
	labels   []string
	joints   []jointSlot
	byJoint  map[string]int
	linkSlot []int
}

// NewDOFIndex derives the DOF index of a descriptor
func NewDOFIndex(d *Descriptor) *DOFIndex {
	ix := &DOFIndex{
		index:    make(map[string]int),
		byJoint:  make(map[string]int),
		linkSlot: make([]int, len(d.links)),
	}

	for i, l := range d.links {
		ix.linkSlot[i] = -1
		if l.Joint != JointNone {
			ix.joints = append(ix.joints, jointSlot{name: l.Name, kind: l.Joint, link: i})
		}
	}
	sort.Slice(ix.joints, func(a, b int) bool {
		return ix.joints[a].name < ix.joints[b].name
	})

	for s := range ix.joints {
		j := &ix.joints[s]
		j.offset = len(ix.labels)
		ix.byJoint[j.name] = s
		ix.linkSlot[j.link] = s

		if j.kind == SingleAxis {
			ix.index[j.name] = len(ix.labels)
			ix.labels = append(ix.labels, j.name)
			continue
		}
		for _, suffix := range axisSuffix {
			label := j.name + suffix
			ix.index[label] = len(ix.labels)
			ix.labels = append(ix.labels, label)
		}
	}

	return ix
}

// Len returns the number of degrees of freedom
func (ix *DOFIndex) Len() int {
	return len(ix.labels)
}

// Index returns the vector position of a DOF label
func (ix *DOFIndex) Index(label string) (int, bool) {
	i, ok := ix.index[label]
	return i, ok
}

// Labels returns the DOF labels in vector order
func (ix *DOFIndex) Labels() []string {
	out := make([]string, len(ix.labels))
	copy(out, ix.labels)
	return out
}

// Joints returns the indexed joint names, sorted
func (ix *DOFIndex) Joints() []string {
	out := make([]string, len(ix.joints))
	for i, j := range ix.joints {
		out[i] = j.name
	}
	return out
}

// Offset returns the first vector position and the kind of a joint
func (ix *DOFIndex) Offset(joint string) (int, JointKind, bool) {
	s, ok := ix.byJoint[joint]
	if !ok {
		return 0, JointNone, false
	}
	return ix.joints[s].offset, ix.joints[s].kind, true
}

// LinkOffset returns the first vector position of the joint owned by the link
// at arena index link, or -1 when the link has no joint
func (ix *DOFIndex) LinkOffset(link int) int {
	s := ix.linkSlot[link]
	if s < 0 {
		return -1
	}
	return ix.joints[s].offset
}

// ToVector encodes cfg. Absent joints and absent axes encode as zero.
func (ix *DOFIndex) ToVector(cfg Configuration) ([]float64, error) {
	vec, _, err := ix.ToVectorMask(cfg)
	return vec, err
}

// ToVectorMask encodes cfg and reports which entries were present in it
func (ix *DOFIndex) ToVectorMask(cfg Configuration) ([]float64, []bool, error) {
	vec := make([]float64, len(ix.labels))
	mask := make([]bool, len(ix.labels))

	for _, name := range cfg.Joints() {
		v := cfg[name]
		s, ok := ix.byJoint[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownJoint, name)
		}
		j := ix.joints[s]
		if v.Kind != j.kind {
			return nil, nil, fmt.Errorf("%w: %q is %s, got %s", ErrKindMismatch, name, j.kind, v.Kind)
		}
		for k := 0; k < j.kind.DOF(); k++ {
			if angle, ok := v.Angles[k].Get(); ok {
				vec[j.offset+k] = angle
				mask[j.offset+k] = true
			}
		}
	}

	return vec, mask, nil
}

// ToConfiguration decodes vec into a configuration holding every indexed joint
func (ix *DOFIndex) ToConfiguration(vec []float64) (Configuration, error) {
	if len(vec) != len(ix.labels) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), len(ix.labels))
	}

	cfg := make(Configuration, len(ix.joints))
	for _, j := range ix.joints {
		cfg[j.name] = ix.decode(j, vec, nil)
	}
	return cfg, nil
}

// ToConfigurationMasked decodes vec, leaving out the entries whose mask is false.
// A joint with no present axis is left out of the result.
func (ix *DOFIndex) ToConfigurationMasked(vec []float64, mask []bool) (Configuration, error) {
	if len(vec) != len(ix.labels) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), len(ix.labels))
	}
	if len(mask) != len(ix.labels) {
		return nil, fmt.Errorf("%w: mask has %d entries, want %d", ErrDimensionMismatch, len(mask), len(ix.labels))
	}

	cfg := make(Configuration)
	for _, j := range ix.joints {
		present := false
		for k := 0; k < j.kind.DOF(); k++ {
			present = present || mask[j.offset+k]
		}
		if present {
			cfg[j.name] = ix.decode(j, vec, mask)
		}
	}
	return cfg, nil
}

func (ix *DOFIndex) decode(j jointSlot, vec []float64, mask []bool) JointValue {
	v := JointValue{Kind: j.kind}
	for k := 0; k < j.kind.DOF(); k++ {
		if mask == nil || mask[j.offset+k] {
			v.Angles[k] = Some(vec[j.offset+k])
		}
	}
	return v
}

// Zero returns a configuration setting every indexed joint to zero
func (ix *DOFIndex) Zero() Configuration {
	cfg, _ := ix.ToConfiguration(make([]float64, len(ix.labels)))
	return cfg
}
