package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/akmonengine/rig"
	"github.com/akmonengine/rig/asset"
	"github.com/akmonengine/rig/wall"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

const route = `1
 U  U
L R L R
# the bear starts here
 C VV C
`

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00", Level: log.DebugLevel})

	bear, err := asset.TaiwanBear()
	if err != nil {
		logger.Fatal("load rig", "err", err)
	}
	home, err := bear.Pose("home")
	if err != nil {
		logger.Fatal("home pose", "err", err)
	}

	r, err := wall.ParseRoute(strings.NewReader(route), wall.DEFAULT_DX, wall.DEFAULT_DY)
	if err != nil {
		logger.Fatal("parse route", "err", err)
	}

	// the bear faces the wall, a little in front of it
	base := mgl64.Translate3D(0, 1.5, 0)
	poses, err := rig.EvaluateEffectors(bear.Chain, home, base)
	if err != nil {
		logger.Fatal("evaluate", "err", err)
	}
	for _, name := range bear.Chain.Effectors() {
		p, _ := poses.Position(name)
		fmt.Printf("%-18s %v\n", name, p)
	}

	s := wall.LimbSolver(bear.Chain)
	s.Base = base
	s.Damping = 0.1
	s.Workers = 4
	s.Logger = logger

	grips, err := wall.Hang(context.Background(), s, home, r.Holds)
	if err != nil {
		logger.Fatal("hang", "err", err)
	}
	if len(grips) == 0 {
		logger.Fatal("no limb found a legal hold")
	}
	for _, g := range grips {
		fmt.Printf("%-18s -> %-18s residual %.4f reached %v\n", g.Effector, g.Hold.Name, g.Result.ResidualError, g.Reached)
	}

	final := grips[len(grips)-1].Result.Configuration
	poses, err = rig.Evaluate(bear.Chain, final, base)
	if err != nil {
		logger.Fatal("evaluate", "err", err)
	}
	box := poses.Bounds()
	fmt.Printf("bounds %v .. %v, center %v, size %v\n", box.Min, box.Max, box.Center(), box.Size())
}
