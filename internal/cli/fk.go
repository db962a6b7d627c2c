package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/akmonengine/rig"
)

func (c *CLI) fkCommand() *cobra.Command {
	var (
		pose      poseFlags
		base      []float64
		effectors bool
	)

	cmd := &cobra.Command{
		Use:   "fk",
		Short: "Evaluate link positions for a pose",
		Long: `Evaluate the world position of every link for a pose.

The pose starts from --pose (a pose stored in the rig asset) and applies each
--set joint=value, or joint=x,y,z for free joints. Joints left out keep their
rest pose.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			r, err := c.loadRig()
			if err != nil {
				return err
			}
			cfg, err := pose.configuration(r)
			if err != nil {
				return err
			}
			b, err := baseTransform(base)
			if err != nil {
				return err
			}

			evaluate := rig.Evaluate
			if effectors {
				evaluate = rig.EvaluateEffectors
			}
			poses, err := evaluate(r.Chain, cfg, b)
			if err != nil {
				return err
			}
			logger.Debug("evaluated", "links", len(poses), "joints set", len(cfg))

			names := make([]string, 0, len(poses))
			for name := range poses {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				p, _ := poses.Position(name)
				rows = append(rows, append([]string{name}, formatVec3(p)...))
			}
			printTable(cmd.OutOrStdout(), []string{"Link", "X", "Y", "Z"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&pose.pose, "pose", "", "start from a pose stored in the rig")
	cmd.Flags().StringArrayVar(&pose.sets, "set", nil, "joint assignment joint=value or joint=x,y,z (repeatable)")
	cmd.Flags().Float64SliceVar(&base, "base", []float64{0, 0, 0}, "root translation x,y,z")
	cmd.Flags().BoolVar(&effectors, "effectors", false, "only print effectors")

	return cmd
}
