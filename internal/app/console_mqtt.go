package app

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/l3gd20/internal/config"
	"github.com/relabs-tech/l3gd20/internal/gyro"
)

func formatSample(s gyro.Sample) string {
	return fmt.Sprintf(
		"[GYRO] x=%6d (%-7s) y=%6d (%-7s) z=%6d (%-7s) temp=%3d",
		s.X.Raw, s.X.Freshness, s.Y.Raw, s.Y.Freshness, s.Z.Raw, s.Z.Freshness, s.Temperature,
	)
}

func formatCharacteristics(c gyro.Characteristics) string {
	return fmt.Sprintf(
		"[CHAR] ±%d°/s  odr=%dHz bw=%s  sens=%.5f°/s/LSB  zero-rate=±%.0f°/s  temp-drift=%.2f°/s  noise=%.3f°/s",
		c.FullScale, c.ODRHz, c.Bandwidth, c.Sensitivity, c.ZeroRateNoise, c.ZeroRateLevelTemp, c.RateNoiseDensity,
	)
}

// RunConsoleMQTT prints every gyro message until ctx is done.
func RunConsoleMQTT(ctx context.Context) error {
	return runConsole(ctx, os.Stdout)
}

func runConsole(ctx context.Context, out io.Writer) error {
	cfg := config.Get()

	client, err := connectMQTT("console", cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON(client, "console", cfg.TopicGyroRaw, func(s gyro.Sample) {
		fmt.Fprintln(out, formatSample(s))
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, "console", cfg.TopicGyroCharacteristics, func(c gyro.Characteristics) {
		fmt.Fprintln(out, formatCharacteristics(c))
	}); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("console: shutting down")
	return nil
}
