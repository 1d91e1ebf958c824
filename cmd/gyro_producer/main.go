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
	cli.Execute(cli.NewCommand("gyro_producer", "read the L3GD20 over SPI and publish samples to MQTT",
		func(ctx context.Context, _ *cobra.Command) error {
			log.Info("starting l3gd20 producer (needs SPI access, run with sudo)")
			return app.RunGyroProducer(ctx)
		}))
}
