// Package wall places climbing holds from a text route and drives a rig's
// limbs onto them.
//
// A route is a level number on its first line followed by a grid of hold
// characters, one row per line:
//
//	3
//	# comments and blank lines are skipped
//	 L  R
//	U C  V
//
// U, R, L, C and V are holds; any other character is an empty cell.
package wall

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_DX = 0.75
	DEFAULT_DY = 1.0
)

var (
	ErrInvalidRoute = errors.New("invalid route")
	ErrNoHolds      = errors.New("no holds")
)

// HoldKind is the shape of a hold, named after the wall asset it is drawn with
type HoldKind uint8

const (
	JugCenter1 HoldKind = iota
	JugRight1
	JugLeft1
	CrimpCenter1
	JugCenter2
)

func (k HoldKind) String() string {
	switch k {
	case JugCenter1:
		return "JugCenter1"
	case JugRight1:
		return "JugRight1"
	case JugLeft1:
		return "JugLeft1"
	case CrimpCenter1:
		return "CrimpCenter1"
	case JugCenter2:
		return "JugCenter2"
	}
	return fmt.Sprintf("HoldKind(%d)", uint8(k))
}

// ParseHoldKind maps a route character to its hold
func ParseHoldKind(c rune) (HoldKind, bool) {
	switch c {
	case 'U':
		return JugCenter1, true
	case 'R':
		return JugRight1, true
	case 'L':
		return JugLeft1, true
	case 'C':
		return CrimpCenter1, true
	case 'V':
		return JugCenter2, true
	}
	return 0, false
}

// Side tells which hand a hold faces
type Side uint8

const (
	SideCenter Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "center"
}

func (k HoldKind) Side() Side {
	switch k {
	case JugLeft1:
		return SideLeft
	case JugRight1:
		return SideRight
	}
	return SideCenter
}

type Hold struct {
	Name     string
	Kind     HoldKind
	Row, Col int
	Position mgl64.Vec3
}

// Legal reports whether the hold can be grabbed by a climber whose centre of
// mass is at com. Left holds must sit at or right of it on X, right holds at
// or left of it, and centre holds are always legal.
func (h Hold) Legal(com mgl64.Vec3) bool {
	switch h.Kind.Side() {
	case SideLeft:
		return h.Position.X() >= com.X()
	case SideRight:
		return h.Position.X() <= com.X()
	}
	return true
}

type Route struct {
	Level  int
	Width  int
	Height int
	Holds  []Hold
}

// ParseRoute reads a route and lays its holds out on the wall plane y = 0.
// Column j of line i sits at ((w-1-j-w/2)·dx, 0, (h-1-i-h/2)·dy), where h
// counts every line including the level and w is the widest grid line.
// Blank and # comment lines hold no holds and take no part in w.
func ParseRoute(r io.Reader, dx, dy float64) (Route, error) {
	if dx <= 0 || dy <= 0 {
		return Route{}, fmt.Errorf("%w: spacing %v x %v", ErrInvalidRoute, dx, dy)
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Route{}, err
	}
	if len(lines) == 0 {
		return Route{}, fmt.Errorf("%w: empty", ErrInvalidRoute)
	}

	level, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Route{}, fmt.Errorf("%w: level %q", ErrInvalidRoute, lines[0])
	}

	route := Route{Level: level, Height: len(lines)}
	for _, line := range lines[1:] {
		if isGridLine(line) {
			route.Width = max(route.Width, len(line))
		}
	}

	w, h := float64(route.Width), float64(route.Height)
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if !isGridLine(line) {
			continue
		}
		for j, c := range line {
			kind, ok := ParseHoldKind(c)
			if !ok {
				continue
			}
			route.Holds = append(route.Holds, Hold{
				Name: fmt.Sprintf("%s_%d_%d", kind, i, j),
				Kind: kind,
				Row:  i,
				Col:  j,
				Position: mgl64.Vec3{
					(w - 1 - float64(j) - w/2) * dx,
					0,
					(h - 1 - float64(i) - h/2) * dy,
				},
			})
		}
	}

	return route, nil
}

func isGridLine(line string) bool {
	return line != "" && !strings.HasPrefix(line, "#")
}

// ClosestHold returns the legal hold nearest to pos. Ties keep the earlier
// hold. It reports false when no hold is legal for com.
func ClosestHold(pos mgl64.Vec3, holds []Hold, com mgl64.Vec3) (Hold, bool) {
	var (
		best    Hold
		found   bool
		nearest float64
	)
	for _, h := range holds {
		if !h.Legal(com) {
			continue
		}
		dist := h.Position.Sub(pos).LenSqr()
		if !found || dist < nearest {
			best, nearest, found = h, dist, true
		}
	}
	return best, found
}
