package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/l3gd20/internal/app"
	"github.com/relabs-tech/l3gd20/internal/cli"
)

func main() {
	cli.Execute(cli.NewCommand("console_mqtt", "print gyro samples and characteristics received over MQTT",
		func(ctx context.Context, _ *cobra.Command) error {
			return app.RunConsoleMQTT(ctx)
		}))
}
