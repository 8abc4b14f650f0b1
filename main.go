package main

import (
	"os"
	"runtime"

	"github.com/urfave/cli"

	"github.com/lumen-render/lumen/cmd"
	"github.com/lumen-render/lumen/log"
)

func init() {
	// The optional preview window needs the main thread for its gl context.
	runtime.LockOSThread()
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "progressively render scenes to convergence"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "render",
			Usage:     "render all cameras of a scene file",
			ArgsUsage: "<scene file>",
			Action:    cmd.RenderScene,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "workers",
					Usage: "dispatch workers; 0 uses one per CPU",
				},
				cli.StringFlag{
					Name:  "variant",
					Value: "path",
					Usage: "integrator variant (path, normal)",
				},
				cli.IntFlag{
					Name:  "num-bounces",
					Value: 5,
					Usage: "number of indirect bounces",
				},
				cli.IntFlag{
					Name:  "seed",
					Usage: "sampler seed",
				},
				cli.BoolFlag{
					Name:  "preview",
					Usage: "show a live preview window",
				},
				cli.IntFlag{
					Name:  "preview-interval",
					Value: 16,
					Usage: "dispatches between preview refreshes",
				},
			},
		},
		{
			Name:   "info",
			Usage:  "print compute device information",
			Action: cmd.Info,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "workers",
					Usage: "dispatch workers; 0 uses one per CPU",
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("lumen").Error(err)
		os.Exit(1)
	}
}
