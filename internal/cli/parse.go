package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/rig/asset"
	"github.com/akmonengine/rig/chain"
)

// poseFlags select a starting configuration: a named pose of the rig, then
// individual joint assignments on top of it.
type poseFlags struct {
	pose string
	sets []string
}

// configuration builds the configuration described by the flags.
func (f poseFlags) configuration(r *asset.Rig) (chain.Configuration, error) {
	cfg := chain.Configuration{}
	if f.pose != "" {
		p, err := r.Pose(f.pose)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	ix := r.Chain.DOFs()
	for _, s := range f.sets {
		name, value, err := parseAssignment(s)
		if err != nil {
			return nil, err
		}
		_, kind, ok := ix.Offset(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", chain.ErrUnknownJoint, name)
		}
		if len(value) != kind.DOF() {
			return nil, fmt.Errorf("%w: %q is %s, got %d angles", chain.ErrKindMismatch, name, kind, len(value))
		}
		if kind == chain.FreeAxis3 {
			cfg[name] = chain.Triple(value[0], value[1], value[2])
		} else {
			cfg[name] = chain.Scalar(value[0])
		}
	}
	return cfg, nil
}

// parseAssignment splits "joint=a" or "joint=x,y,z".
func parseAssignment(s string) (string, []float64, error) {
	name, values, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid assignment %q: want joint=value[,value,value]", s)
	}
	parts := strings.Split(values, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid assignment %q: %w", s, err)
		}
		out[i] = v
	}
	return name, out, nil
}

func toVec3(name string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("--%s needs 3 values, got %d", name, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

// baseTransform is the world transform of the rig root, a pure translation.
func baseTransform(v []float64) (mgl64.Mat4, error) {
	t, err := toVec3("base", v)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	return mgl64.Translate3D(t.X(), t.Y(), t.Z()), nil
}
