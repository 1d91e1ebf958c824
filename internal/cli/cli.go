// Package cli builds the cobra commands shared by every binary.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/l3gd20/internal/config"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "gyro_config.txt"

// RunFunc runs a command until ctx is cancelled by SIGINT or SIGTERM.
type RunFunc func(ctx context.Context, cmd *cobra.Command) error

// NewCommand returns a command with the --config and --debug flags. The
// global config is loaded before run is called.
func NewCommand(use, short string, run RunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:          use,
		Short:        short,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd)
		},
	}
	cmd.Flags().String("config", DefaultConfigPath, "configuration file (KEY=VALUE)")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
	return cmd
}

func setup(cmd *cobra.Command) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.SetLevel(log.DebugLevel)
	}
	path, _ := cmd.Flags().GetString("config")
	if err := config.InitGlobal(path); err != nil {
		return err
	}
	log.Debugf("%s: config loaded from %s", cmd.Name(), path)
	return nil
}

// Execute runs cmd and exits non-zero on error.
func Execute(cmd *cobra.Command) {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("%s: %v", cmd.Name(), err)
	}
}
