// Package asset loads rig descriptions from TOML documents.
//
// A document names the rig, the rotation order of its free joints, its links
// and any number of named poses:
//
//	name = "arm"
//	rotation_order = "zyx"
//
//	[[link]]
//	name = "shoulder"
//	joint = "single"
//	offset = [[1,0,0,0],[0,1,0,0],[0,0,1,0],[0,0,0,1]]
//
//	[[pose]]
//	name = "home"
//	[pose.joints]
//	shoulder = [0.5]
//
// Offsets are row-major. When joint is omitted, links named RJoint_*_XYZ_* are
// free joints, RJoint_*_Z_* single axis joints, and everything else is rigid.
package asset

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/akmonengine/rig/chain"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidAsset = errors.New("invalid rig asset")
	ErrUnknownPose  = errors.New("unknown pose")
)

const jointPrefix = "RJoint_"

type document struct {
	Name          string         `toml:"name"`
	RotationOrder string         `toml:"rotation_order"`
	Links         []linkDocument `toml:"link"`
	Poses         []poseDocument `toml:"pose"`
}

type linkDocument struct {
	Name   string      `toml:"name"`
	Parent string      `toml:"parent"`
	Joint  string      `toml:"joint"`
	Axis   string      `toml:"axis"`
	Offset [][]float64 `toml:"offset"`
}

type poseDocument struct {
	Name   string               `toml:"name"`
	Joints map[string][]float64 `toml:"joints"`
}

// Rig is a validated chain plus its named poses
type Rig struct {
	Name  string
	Chain *chain.Descriptor
	poses map[string]chain.Configuration
}

// Pose returns a copy of the named pose
func (r *Rig) Pose(name string) (chain.Configuration, error) {
	cfg, ok := r.poses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPose, name)
	}
	return cfg.Clone(), nil
}

// PoseNames returns the pose names, sorted
func (r *Rig) PoseNames() []string {
	names := make([]string, 0, len(r.poses))
	for n := range r.poses {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Decode parses and validates a rig document
func Decode(r io.Reader) (*Rig, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidAsset, undecoded[0].String())
	}

	return build(doc)
}

// Load reads a rig document from disk
func Load(path string) (*Rig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

//go:embed taiwanbear.toml
var taiwanBearTOML string

var (
	taiwanBear     *Rig
	taiwanBearErr  error
	taiwanBearOnce sync.Once
)

// TaiwanBear returns the embedded bear rig. The result is parsed once and
// shared; its descriptor is immutable and Pose hands out copies.
func TaiwanBear() (*Rig, error) {
	taiwanBearOnce.Do(func() {
		taiwanBear, taiwanBearErr = Decode(strings.NewReader(taiwanBearTOML))
	})
	return taiwanBear, taiwanBearErr
}

func build(doc document) (*Rig, error) {
	order, err := chain.ParseRotationOrder(doc.RotationOrder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	specs := make([]chain.LinkSpec, len(doc.Links))
	for i, l := range doc.Links {
		spec, err := l.spec()
		if err != nil {
			return nil, fmt.Errorf("%w: link %q: %w", ErrInvalidAsset, l.Name, err)
		}
		specs[i] = spec
	}

	d, err := chain.New(specs, chain.WithRotationOrder(order))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}

	rig := &Rig{Name: doc.Name, Chain: d, poses: make(map[string]chain.Configuration, len(doc.Poses))}
	for _, p := range doc.Poses {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: pose without a name", ErrInvalidAsset)
		}
		if _, dup := rig.poses[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate pose %q", ErrInvalidAsset, p.Name)
		}
		cfg, err := p.configuration(d)
		if err != nil {
			return nil, fmt.Errorf("%w: pose %q: %w", ErrInvalidAsset, p.Name, err)
		}
		rig.poses[p.Name] = cfg
	}
	if rig.Name == "" {
		rig.Name = d.Root().Name
	}

	return rig, nil
}

func (l linkDocument) spec() (chain.LinkSpec, error) {
	offset, err := parseOffset(l.Offset)
	if err != nil {
		return chain.LinkSpec{}, err
	}
	kind, err := parseJoint(l.Joint, l.Name)
	if err != nil {
		return chain.LinkSpec{}, err
	}
	axis, err := parseAxis(l.Axis)
	if err != nil {
		return chain.LinkSpec{}, err
	}

	return chain.LinkSpec{Name: l.Name, Parent: l.Parent, Offset: offset, Joint: kind, Axis: axis}, nil
}

// parseOffset reads four row-major rows; a missing offset is the identity
func parseOffset(rows [][]float64) (mgl64.Mat4, error) {
	if rows == nil {
		return mgl64.Ident4(), nil
	}
	if len(rows) != 4 {
		return mgl64.Mat4{}, fmt.Errorf("offset has %d rows, want 4", len(rows))
	}
	var r [4]mgl64.Vec4
	for i, row := range rows {
		if len(row) != 4 {
			return mgl64.Mat4{}, fmt.Errorf("offset row %d has %d values, want 4", i, len(row))
		}
		r[i] = mgl64.Vec4{row[0], row[1], row[2], row[3]}
	}
	return mgl64.Mat4FromRows(r[0], r[1], r[2], r[3]), nil
}

func parseJoint(s, linkName string) (chain.JointKind, error) {
	switch s {
	case "":
		return inferJoint(linkName), nil
	case "none":
		return chain.JointNone, nil
	case "single":
		return chain.SingleAxis, nil
	case "free3":
		return chain.FreeAxis3, nil
	}
	return chain.JointNone, fmt.Errorf("unknown joint kind %q", s)
}

// inferJoint applies the rig naming convention
func inferJoint(name string) chain.JointKind {
	if !strings.HasPrefix(name, jointPrefix) {
		return chain.JointNone
	}
	switch {
	case strings.Contains(name, "_XYZ_"):
		return chain.FreeAxis3
	case strings.Contains(name, "_Z_"):
		return chain.SingleAxis
	}
	return chain.JointNone
}

func parseAxis(s string) (chain.Axis, error) {
	switch s {
	case "", "z":
		return chain.AxisZ, nil
	case "y":
		return chain.AxisY, nil
	case "x":
		return chain.AxisX, nil
	}
	return chain.AxisZ, fmt.Errorf("unknown axis %q", s)
}

func (p poseDocument) configuration(d *chain.Descriptor) (chain.Configuration, error) {
	ix := d.DOFs()
	cfg := make(chain.Configuration, len(p.Joints))
	for name, angles := range p.Joints {
		_, kind, ok := ix.Offset(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", chain.ErrUnknownJoint, name)
		}
		if len(angles) != kind.DOF() {
			return nil, fmt.Errorf("%w: %q is %s, got %d angles", chain.ErrKindMismatch, name, kind, len(angles))
		}
		if kind == chain.FreeAxis3 {
			cfg[name] = chain.Triple(angles[0], angles[1], angles[2])
		} else {
			cfg[name] = chain.Scalar(angles[0])
		}
	}
	return cfg, nil
}
