package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akmonengine/rig/wall"
)

func (c *CLI) hangCommand() *cobra.Command {
	var (
		pose   poseFlags
		solver solverFlags
		base   []float64
		dx, dy float64
	)

	cmd := &cobra.Command{
		Use:   "hang [route.txt]",
		Short: "Place every limb of the rig on a climbing route",
		Long: `Place every limb of the rig on the holds of a climbing route.

Each limb in turn reaches for the closest legal hold from where it stands,
starting from the configuration the previous limb left behind. The default
pose is "home" when the rig has one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			r, err := c.loadRig()
			if err != nil {
				return err
			}
			if pose.pose == "" {
				if _, err := r.Pose("home"); err == nil {
					pose.pose = "home"
				}
			}
			cfg, err := pose.configuration(r)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			route, err := wall.ParseRoute(f, dx, dy)
			if err != nil {
				return fmt.Errorf("route %s: %w", args[0], err)
			}
			logger.Debug("route loaded", "level", route.Level, "holds", len(route.Holds))

			s := wall.LimbSolver(r.Chain)
			if err := solver.apply(cmd, s); err != nil {
				return err
			}
			if s.Base, err = baseTransform(base); err != nil {
				return err
			}
			s.Logger = logger

			prog := newProgress(logger)
			grips, err := wall.Hang(cmd.Context(), s, cfg, route.Holds)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("placed %d limbs", len(grips)))

			w := cmd.OutOrStdout()
			rows := make([][]string, 0, len(grips))
			reached := 0
			for _, g := range grips {
				status := "no"
				if g.Reached {
					status = "yes"
					reached++
				}
				rows = append(rows, []string{g.Effector, g.Hold.Name, formatFloat(g.Result.ResidualError), status})
			}
			printTable(w, []string{"Limb", "Hold", "Residual", "Reached"}, rows)
			if reached == len(wall.Limbs) {
				printSuccess(w, "level %d: all limbs on holds", route.Level)
			} else {
				printWarning(w, "level %d: %d of %d limbs on holds", route.Level, reached, len(wall.Limbs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pose.pose, "pose", "", "start from a pose stored in the rig (default: home)")
	cmd.Flags().StringArrayVar(&pose.sets, "set", nil, "joint assignment joint=value or joint=x,y,z (repeatable)")
	cmd.Flags().Float64SliceVar(&base, "base", []float64{0, 0, 0}, "root translation x,y,z")
	cmd.Flags().Float64Var(&dx, "dx", wall.DEFAULT_DX, "hold spacing along X")
	cmd.Flags().Float64Var(&dy, "dy", wall.DEFAULT_DY, "hold spacing along Z")
	solver.register(cmd, wall.LimbSolver(nil))

	return cmd
}
