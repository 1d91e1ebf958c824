// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/l3gd20/internal/app"
	"github.com/relabs-tech/l3gd20/internal/cli"
)

func main() {
	cli.Execute(cli.NewCommand("register_debug", "inspect and write L3GD20 registers from a browser",
		func(ctx context.Context, _ *cobra.Command) error {
			log.Info("starting L3GD20 register debug tool (standalone, do not run next to gyro_producer)")
			return app.RunRegisterDebug(ctx)
		}))
}
