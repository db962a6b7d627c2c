package wall

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/akmonengine/rig"
	"github.com/akmonengine/rig/chain"
	"github.com/go-gl/mathgl/mgl64"
)

func vec3AlmostEqual(a, b mgl64.Vec3, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) >= tolerance {
			return false
		}
	}
	return true
}

const route = "3\n# top row\n L R\n\nU CXV\n"

// =============================================================================
// Route Tests
// =============================================================================

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute(strings.NewReader(route), DEFAULT_DX, DEFAULT_DY)
	if err != nil {
		t.Fatalf("ParseRoute() error = %v", err)
	}

	if r.Level != 3 || r.Width != 5 || r.Height != 5 {
		t.Errorf("Level, Width, Height = %d, %d, %d, want 3, 5, 5", r.Level, r.Width, r.Height)
	}

	tests := []struct {
		name     string
		kind     HoldKind
		position mgl64.Vec3
	}{
		{"JugLeft1_2_1", JugLeft1, mgl64.Vec3{0.375, 0, -0.5}},
		{"JugRight1_2_3", JugRight1, mgl64.Vec3{-1.125, 0, -0.5}},
		{"JugCenter1_4_0", JugCenter1, mgl64.Vec3{1.125, 0, -2.5}},
		{"CrimpCenter1_4_2", CrimpCenter1, mgl64.Vec3{-0.375, 0, -2.5}},
		{"JugCenter2_4_4", JugCenter2, mgl64.Vec3{-1.875, 0, -2.5}},
	}

	if len(r.Holds) != len(tests) {
		t.Fatalf("len(Holds) = %d, want %d", len(r.Holds), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := r.Holds[i]
			if h.Name != tt.name || h.Kind != tt.kind {
				t.Errorf("hold %d = %s (%v), want %s (%v)", i, h.Name, h.Kind, tt.name, tt.kind)
			}
			if !vec3AlmostEqual(h.Position, tt.position, 1e-12) {
				t.Errorf("%s at %v, want %v", h.Name, h.Position, tt.position)
			}
		})
	}
}

func TestParseRoute_CommentsDoNotWiden(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"long comment", "1\n# a long comment line here\nU\n"},
		{"blank line", "1\n\nU\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRoute(strings.NewReader(tt.input), DEFAULT_DX, DEFAULT_DY)
			if err != nil {
				t.Fatalf("ParseRoute() error = %v", err)
			}
			if r.Width != 1 || r.Height != 3 {
				t.Errorf("Width, Height = %d, %d, want 1, 3", r.Width, r.Height)
			}
			if len(r.Holds) != 1 {
				t.Fatalf("len(Holds) = %d, want 1", len(r.Holds))
			}
			want := mgl64.Vec3{-0.375, 0, -1.5}
			if !vec3AlmostEqual(r.Holds[0].Position, want, 1e-12) {
				t.Errorf("hold at %v, want %v", r.Holds[0].Position, want)
			}
		})
	}
}

func TestParseRoute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		dx, dy float64
	}{
		{"empty", "", 1, 1},
		{"level", "high\nUU", 1, 1},
		{"spacing", "1\nU", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoute(strings.NewReader(tt.input), tt.dx, tt.dy)
			if !errors.Is(err, ErrInvalidRoute) {
				t.Errorf("ParseRoute() error = %v, want ErrInvalidRoute", err)
			}
		})
	}
}

func TestHoldKind(t *testing.T) {
	tests := []struct {
		char rune
		kind HoldKind
		side Side
	}{
		{'U', JugCenter1, SideCenter},
		{'R', JugRight1, SideRight},
		{'L', JugLeft1, SideLeft},
		{'C', CrimpCenter1, SideCenter},
		{'V', JugCenter2, SideCenter},
	}

	for _, tt := range tests {
		t.Run(string(tt.char), func(t *testing.T) {
			kind, ok := ParseHoldKind(tt.char)
			if !ok || kind != tt.kind {
				t.Fatalf("ParseHoldKind(%q) = %v, %v", tt.char, kind, ok)
			}
			if kind.Side() != tt.side {
				t.Errorf("%v.Side() = %v, want %v", kind, kind.Side(), tt.side)
			}
		})
	}

	if _, ok := ParseHoldKind('x'); ok {
		t.Error("ParseHoldKind('x') should not be a hold")
	}
}

// =============================================================================
// ClosestHold Tests
// =============================================================================

func TestHoldLegal(t *testing.T) {
	com := mgl64.Vec3{0, 0, 0}

	tests := []struct {
		name string
		hold Hold
		want bool
	}{
		{"left hold right of com", Hold{Kind: JugLeft1, Position: mgl64.Vec3{1, 0, 0}}, true},
		{"left hold under com", Hold{Kind: JugLeft1, Position: mgl64.Vec3{0, 0, 3}}, true},
		{"left hold left of com", Hold{Kind: JugLeft1, Position: mgl64.Vec3{-1, 0, 0}}, false},
		{"right hold left of com", Hold{Kind: JugRight1, Position: mgl64.Vec3{-1, 0, 0}}, true},
		{"right hold right of com", Hold{Kind: JugRight1, Position: mgl64.Vec3{1, 0, 0}}, false},
		{"center hold", Hold{Kind: CrimpCenter1, Position: mgl64.Vec3{-5, 0, 0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hold.Legal(com); got != tt.want {
				t.Errorf("Legal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosestHold(t *testing.T) {
	r, err := ParseRoute(strings.NewReader(route), DEFAULT_DX, DEFAULT_DY)
	if err != nil {
		t.Fatalf("ParseRoute() error = %v", err)
	}

	h, ok := ClosestHold(mgl64.Vec3{1, 0, -2.5}, r.Holds, mgl64.Vec3{})
	if !ok || h.Name != "JugCenter1_4_0" {
		t.Errorf("ClosestHold() = %s, %v, want JugCenter1_4_0", h.Name, ok)
	}

	// the left hold is nearest but lies left of the centre of mass
	h, ok = ClosestHold(mgl64.Vec3{0.4, 0, -0.5}, r.Holds, mgl64.Vec3{1, 0, 0})
	if !ok || h.Name == "JugLeft1_2_1" {
		t.Errorf("ClosestHold() picked illegal hold %s", h.Name)
	}
	if h.Name != "CrimpCenter1_4_2" && h.Name != "JugRight1_2_3" {
		t.Errorf("ClosestHold() = %s", h.Name)
	}

	illegal := []Hold{{Name: "l", Kind: JugLeft1, Position: mgl64.Vec3{-1, 0, 0}}}
	if _, ok := ClosestHold(mgl64.Vec3{}, illegal, mgl64.Vec3{}); ok {
		t.Error("ClosestHold() found a hold among illegal holds")
	}
	if _, ok := ClosestHold(mgl64.Vec3{}, nil, mgl64.Vec3{}); ok {
		t.Error("ClosestHold() found a hold in an empty list")
	}
}

// =============================================================================
// Hang Tests
// =============================================================================

// quadruped has four two-link planar arms hanging off a body at the origin.
// Arm roots sit at x = -6, -2, 2, 6 and every arm points along +X at rest.
func quadruped(t *testing.T) *chain.Descriptor {
	t.Helper()
	specs := []chain.LinkSpec{{Name: "body", Offset: mgl64.Ident4()}}
	for i, limb := range Limbs {
		shoulder, elbow := limb+"_shoulder", limb+"_elbow"
		x := -6 + 4*float64(i)
		specs = append(specs,
			chain.LinkSpec{Name: shoulder, Parent: "body", Offset: mgl64.Translate3D(x, 0, 0), Joint: chain.SingleAxis},
			chain.LinkSpec{Name: elbow, Parent: shoulder, Offset: mgl64.Translate3D(1, 0, 0), Joint: chain.SingleAxis},
			chain.LinkSpec{Name: limb, Parent: elbow, Offset: mgl64.Translate3D(1, 0, 0)},
		)
	}
	d, err := chain.New(specs)
	if err != nil {
		t.Fatalf("chain.New() error = %v", err)
	}
	return d
}

func TestHang(t *testing.T) {
	d := quadruped(t)
	s := rig.NewSolver(d)
	s.Damping = 0.1
	s.ToleranceSquared = 1e-6
	s.MaxIterations = 200

	holds := []Hold{
		{Name: "a", Kind: JugCenter1, Position: mgl64.Vec3{-5, 1, 0}},
		{Name: "b", Kind: JugCenter1, Position: mgl64.Vec3{-1, 1, 0}},
		{Name: "c", Kind: CrimpCenter1, Position: mgl64.Vec3{3, 1, 0}},
		{Name: "d", Kind: JugCenter2, Position: mgl64.Vec3{7, 1, 0}},
	}

	grips, err := Hang(context.Background(), s, nil, holds)
	if err != nil {
		t.Fatalf("Hang() error = %v", err)
	}
	if len(grips) != len(Limbs) {
		t.Fatalf("len(grips) = %d, want %d", len(grips), len(Limbs))
	}

	for i, g := range grips {
		if g.Effector != Limbs[i] {
			t.Errorf("grip %d effector = %s, want %s", i, g.Effector, Limbs[i])
		}
		if g.Hold.Name != holds[i].Name {
			t.Errorf("%s grabbed %s, want %s", g.Effector, g.Hold.Name, holds[i].Name)
		}
		if !g.Reached || !g.Result.Converged() {
			t.Errorf("%s: reached %v, state %v, residual %v", g.Effector, g.Reached, g.Result.State, g.Result.ResidualError)
		}
	}

	// the last grip carries every limb's placement
	final := grips[len(grips)-1].Result.Configuration
	poses, err := rig.EvaluateEffectors(d, final, mgl64.Ident4())
	if err != nil {
		t.Fatalf("EvaluateEffectors() error = %v", err)
	}
	for i, limb := range Limbs {
		p, _ := poses.Position(limb)
		if !vec3AlmostEqual(p, holds[i].Position, 1e-2) {
			t.Errorf("%s ended at %v, want %v", limb, p, holds[i].Position)
		}
	}
}

func TestHang_LimbDefaults(t *testing.T) {
	d := quadruped(t)
	s := LimbSolver(d)

	if s.StepScale != 0.1 || s.ToleranceSquared != 0.05 || s.MaxIterations != 10 {
		t.Errorf("LimbSolver() = %v, %v, %d", s.StepScale, s.ToleranceSquared, s.MaxIterations)
	}

	// every hold is already within reach, so no limb needs to move
	var holds []Hold
	for i := range Limbs {
		holds = append(holds, Hold{Name: Limbs[i], Kind: JugCenter1, Position: mgl64.Vec3{-4 + 4*float64(i), 0.1, 0}})
	}
	grips, err := Hang(context.Background(), s, nil, holds)
	if err != nil {
		t.Fatalf("Hang() error = %v", err)
	}
	for _, g := range grips {
		if !g.Reached || g.Result.Iterations != 0 {
			t.Errorf("%s: reached %v after %d iterations", g.Effector, g.Reached, g.Result.Iterations)
		}
	}
}

func TestHang_ChoosesFromGivenConfiguration(t *testing.T) {
	s := LimbSolver(quadruped(t))
	holds := []Hold{
		{Name: "rest", Kind: JugCenter1, Position: mgl64.Vec3{-4, 0, 0}},
		{Name: "swung", Kind: JugCenter1, Position: mgl64.Vec3{-8, 0.5, 0}},
	}

	// the first arm starts swung back along -X, its tip at (-8, 0, 0)
	cfg := chain.Configuration{Limbs[0] + "_shoulder": chain.Scalar(math.Pi)}
	grips, err := Hang(context.Background(), s, cfg, holds)
	if err != nil {
		t.Fatalf("Hang() error = %v", err)
	}
	if len(grips) == 0 || grips[0].Effector != Limbs[0] {
		t.Fatalf("grips = %v, want %s first", grips, Limbs[0])
	}
	if grips[0].Hold.Name != "swung" {
		t.Errorf("%s grabbed %s, want swung", Limbs[0], grips[0].Hold.Name)
	}
	if v, ok := grips[len(grips)-1].Result.Configuration[Limbs[0]+"_shoulder"]; !ok {
		t.Error("final configuration lost the first arm's shoulder")
	} else if a, _ := v.Scalar(); math.Abs(a-math.Pi) > 0.5 {
		t.Errorf("first arm shoulder = %v, want near π", a)
	}
}

func TestHang_SkipsIllegalHolds(t *testing.T) {
	s := LimbSolver(quadruped(t))
	holds := []Hold{{Name: "far left", Kind: JugLeft1, Position: mgl64.Vec3{-10, 0, 0}}}

	grips, err := Hang(context.Background(), s, nil, holds)
	if err != nil {
		t.Fatalf("Hang() error = %v", err)
	}
	if len(grips) != 0 {
		t.Errorf("len(grips) = %d, want 0", len(grips))
	}
}

func TestHang_Errors(t *testing.T) {
	holds := []Hold{{Name: "u", Kind: JugCenter1}}

	if _, err := Hang(context.Background(), LimbSolver(quadruped(t)), nil, nil); !errors.Is(err, ErrNoHolds) {
		t.Errorf("Hang(no holds) error = %v, want ErrNoHolds", err)
	}
	if _, err := Hang(context.Background(), nil, nil, holds); !errors.Is(err, rig.ErrInvalidParameter) {
		t.Errorf("Hang(nil solver) error = %v, want ErrInvalidParameter", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	grips, err := Hang(ctx, LimbSolver(quadruped(t)), nil, holds)
	if !errors.Is(err, context.Canceled) || len(grips) != 0 {
		t.Errorf("Hang(cancelled) = %d grips, %v", len(grips), err)
	}

	arm, err := chain.New([]chain.LinkSpec{
		{Name: "shoulder", Offset: mgl64.Ident4(), Joint: chain.SingleAxis},
		{Name: "tip", Parent: "shoulder", Offset: mgl64.Translate3D(1, 0, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Hang(context.Background(), LimbSolver(arm), nil, holds); !errors.Is(err, chain.ErrUnknownLink) {
		t.Errorf("Hang(no limbs) error = %v, want ErrUnknownLink", err)
	}
}
