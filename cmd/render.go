package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/lumen-render/lumen/integrator"
	"github.com/lumen-render/lumen/renderer"
	"github.com/lumen-render/lumen/scene"
)

// Render all cameras of a scene file.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := scene.Read(ctx.Args().First())
	if err != nil {
		return err
	}

	opts := renderer.Options{
		Workers:         ctx.Int("workers"),
		Variant:         ctx.String("variant"),
		NumBounces:      uint32(ctx.Int("num-bounces")),
		SamplerSeed:     uint64(ctx.Int("seed")),
		Preview:         ctx.Bool("preview"),
		PreviewInterval: uint32(ctx.Int("preview-interval")),
	}

	r, err := renderer.New(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	// Ctrl-C aborts the in-flight camera but still tears down the film.
	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = r.Render(runCtx); err != nil {
		return err
	}

	displayRenderStats(r.Stats())
	return nil
}

func displayRenderStats(stats []integrator.CameraStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Output", "Resolution", "SPP", "Dispatches", "Compile time", "Render time"})
	for _, stat := range stats {
		table.Append([]string{
			stat.Output,
			fmt.Sprintf("%dx%d", stat.Resolution[0], stat.Resolution[1]),
			fmt.Sprintf("%d", stat.SPP),
			fmt.Sprintf("%d", stat.Dispatches),
			fmt.Sprintf("%s", stat.CompileTime),
			fmt.Sprintf("%s", stat.RenderTime),
		})
	}

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
