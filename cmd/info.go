package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/lumen-render/lumen/device"
)

// Print information about the compute device configuration.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	dev := device.New("host", ctx.Int("workers"))

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Device", "Dispatch workers", "CPUs"})
	table.Append([]string{
		dev.Name,
		fmt.Sprintf("%d", dev.Workers()),
		fmt.Sprintf("%d", runtime.NumCPU()),
	})
	table.Render()

	fmt.Print(buf.String())
	return nil
}
