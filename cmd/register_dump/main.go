package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/l3gd20/internal/app"
	"github.com/relabs-tech/l3gd20/internal/cli"
)

func main() {
	cmd := cli.NewCommand("register_dump", "write every L3GD20 register as YAML",
		func(_ context.Context, cmd *cobra.Command) error {
			out, _ := cmd.Flags().GetString("output")
			return app.RunRegisterDump(out)
		})
	cmd.Flags().StringP("output", "o", "-", "output file, - for stdout")
	cli.Execute(cmd)
}
