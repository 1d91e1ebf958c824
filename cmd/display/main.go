package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/l3gd20/internal/app"
	"github.com/relabs-tech/l3gd20/internal/cli"
)

func main() {
	cli.Execute(cli.NewCommand("display", "show the latest gyro sample on an SSD1306 OLED",
		func(ctx context.Context, _ *cobra.Command) error {
			return app.RunDisplay(ctx)
		}))
}
