package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/akmonengine/rig"
)

func (c *CLI) ikCommand() *cobra.Command {
	var (
		pose     poseFlags
		solver   solverFlags
		base     []float64
		target   []float64
		effector string
	)

	cmd := &cobra.Command{
		Use:   "ik",
		Short: "Solve a pose that brings an effector to a target",
		Long: `Solve a pose that brings an effector to a target position.

The solve starts from --pose and --set like fk. Solver parameters come from
--config, then from the individual flags. Running out of iterations is not an
error: the closest pose found is printed with its residual.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			r, err := c.loadRig()
			if err != nil {
				return err
			}
			initial, err := pose.configuration(r)
			if err != nil {
				return err
			}
			goal, err := toVec3("target", target)
			if err != nil {
				return err
			}

			s := rig.NewSolver(r.Chain)
			if err := solver.apply(cmd, s); err != nil {
				return err
			}
			if s.Base, err = baseTransform(base); err != nil {
				return err
			}
			s.Logger = logger

			prog := newProgress(logger)
			res, err := s.Solve(initial, effector, goal)
			if err != nil {
				return err
			}
			prog.done("ik " + res.State.String())

			printResult(cmd, effector, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&effector, "effector", "", "link to move")
	cmd.Flags().Float64SliceVar(&target, "target", nil, "target position x,y,z")
	cmd.Flags().StringVar(&pose.pose, "pose", "", "start from a pose stored in the rig")
	cmd.Flags().StringArrayVar(&pose.sets, "set", nil, "joint assignment joint=value or joint=x,y,z (repeatable)")
	cmd.Flags().Float64SliceVar(&base, "base", []float64{0, 0, 0}, "root translation x,y,z")
	solver.register(cmd, rig.NewSolver(nil))
	_ = cmd.MarkFlagRequired("effector")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func printResult(cmd *cobra.Command, effector string, res rig.Result) {
	w := cmd.OutOrStdout()
	if res.Converged() {
		printSuccess(w, "%s converged after %d iterations", effector, res.Iterations)
	} else {
		printWarning(w, "%s exhausted after %d iterations", effector, res.Iterations)
	}
	printKeyValue(w, "residual", formatFloat(res.ResidualError))
	if p, ok := res.Poses.Position(effector); ok {
		printKeyValue(w, "position", formatFloat(p.X())+" "+formatFloat(p.Y())+" "+formatFloat(p.Z()))
	}

	var rows [][]string
	for _, name := range res.Configuration.Joints() {
		v := res.Configuration[name]
		row := []string{name}
		for i := 0; i < 3; i++ {
			cell := ""
			if i < v.Kind.DOF() {
				cell = strconv.FormatFloat(v.Angles[i].Or(0), 'f', 6, 64)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	printTable(w, []string{"Joint", "X / Angle", "Y", "Z"}, rows)
}
