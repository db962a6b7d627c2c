// Package cli implements the rig command-line interface.
//
// # Commands
//
//   - dofs: list the degrees of freedom of a rig in vector order
//   - fk: evaluate link positions for a pose
//   - ik: solve a pose that brings an effector to a target
//   - hang: place every limb on the holds of a climbing route
//
// Every command works on the embedded TaiwanBear rig unless --rig names a
// TOML rig asset. All commands support --verbose (-v) for debug logging; the
// logger travels on the command context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/akmonengine/rig/asset"
	"github.com/akmonengine/rig/internal/buildinfo"
)

const appName = "rig"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	rigPath string
	verbose bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Kinematics of a climbing bear rig",
		Long:         `rig evaluates forward and inverse kinematics of articulated rigs and hangs them on climbing walls.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.rigPath, "rig", "", "rig asset file (default: embedded TaiwanBear)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.dofsCommand())
	root.AddCommand(c.fkCommand())
	root.AddCommand(c.ikCommand())
	root.AddCommand(c.hangCommand())

	return root
}

// loadRig returns the rig named by --rig, or the embedded one.
func (c *CLI) loadRig() (*asset.Rig, error) {
	if c.rigPath == "" {
		return asset.TaiwanBear()
	}
	r, err := asset.Load(c.rigPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("rig loaded", "path", c.rigPath, "links", r.Chain.Len(), "dofs", r.Chain.DOFs().Len())
	return r, nil
}
