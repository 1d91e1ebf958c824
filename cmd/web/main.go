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
	cli.Execute(cli.NewCommand("web", "serve the latest gyro data over HTTP and websocket",
		func(ctx context.Context, _ *cobra.Command) error {
			log.Info("starting l3gd20 web server (MQTT subscriber)")
			log.Info("note: samples arrive only while gyro_producer is running")
			return app.RunWeb(ctx)
		}))
}
