// Package cli contains the logic of the stem simulator command.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	configFlag    = "config"
	debugFlag     = "debug"
	ticksFlag     = "ticks"
	pivotFlag     = "pivot"
	wristFlag     = "wrist"
	telescopeFlag = "telescope"
)

var targetFlags = []cli.Flag{
	&cli.Float64Flag{
		Name:  pivotFlag,
		Usage: "request a target pivot angle in degrees, overriding the config's target",
	},
	&cli.Float64Flag{
		Name:  wristFlag,
		Usage: "request a target wrist angle in degrees, overriding the config's target",
	},
	&cli.Float64Flag{
		Name:  telescopeFlag,
		Usage: "request a target telescope length, overriding the config's target",
	},
}

// NewApp returns a new app with the simulator commands, Writer set to out, and ErrWriter set to
// errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "stemsim",
		Usage:           "plan and simulate stem motion",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     configFlag,
				Aliases:  []string{"c"},
				Usage:    "load configuration from `FILE`",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "step",
				Usage: "run a number of ticks synchronously and print every planned state",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  ticksFlag,
						Value: 10,
						Usage: "number of ticks to plan",
					},
				}, targetFlags...),
				Action: StepAction,
			},
			{
				Name:  "run",
				Usage: "run the control loop at the configured frequency, reloading the config file on change",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  ticksFlag,
						Usage: "stop after this many ticks; 0 runs until interrupted",
					},
				}, targetFlags...),
				Action: RunAction,
			},
		},
	}
}
