package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/l3gd20/internal/config"
)

func TestNewCommandLoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gyro_config.txt")
	if err := os.WriteFile(path, []byte("GYRO_ODR=2\nMQTT_BROKER=tcp://broker:1883\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	defer log.SetLevel(log.GetLevel())

	var ran bool
	cmd := NewCommand("test", "test command", func(ctx context.Context, _ *cobra.Command) error {
		ran = true
		if ctx.Err() != nil {
			t.Error("context already done")
		}
		cfg := config.Get()
		if cfg == nil || cfg.GyroODR != 2 || cfg.MQTTBroker != "tcp://broker:1883" {
			t.Errorf("config = %+v", cfg)
		}
		return nil
	})
	cmd.SetArgs([]string{"--config", path, "--debug"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("run not called")
	}
	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("log level = %v", log.GetLevel())
	}
}

func TestNewCommandFlags(t *testing.T) {
	cmd := NewCommand("test", "", func(context.Context, *cobra.Command) error { return nil })
	f := cmd.Flags().Lookup("config")
	if f == nil || f.DefValue != DefaultConfigPath {
		t.Fatalf("config flag = %+v", f)
	}
	if cmd.Flags().Lookup("debug") == nil {
		t.Fatal("missing debug flag")
	}
}
