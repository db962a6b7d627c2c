package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func (c *CLI) dofsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dofs",
		Short: "List the degrees of freedom of a rig",
		Long: `List the degrees of freedom of a rig in configuration vector order.

Joints are sorted by name; free joints contribute three entries, suffixed
/x, /y and /z.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.loadRig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			ix := r.Chain.DOFs()
			rows := make([][]string, 0, ix.Len())
			for i, label := range ix.Labels() {
				rows = append(rows, []string{label, strconv.Itoa(i)})
			}

			printInfo(w, "%s: %s links, %s DOFs", StyleTitle.Render(r.Name),
				StyleNumber.Render(strconv.Itoa(r.Chain.Len())), StyleNumber.Render(strconv.Itoa(ix.Len())))
			printTable(w, []string{"DOF", "Index"}, rows)
			return nil
		},
	}
}
