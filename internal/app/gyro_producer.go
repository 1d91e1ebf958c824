package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/l3gd20/internal/config"
	"github.com/relabs-tech/l3gd20/internal/gyro"
	"github.com/relabs-tech/l3gd20/internal/l3gd20"
	"github.com/relabs-tech/l3gd20/internal/metrics"
	"github.com/relabs-tech/l3gd20/internal/sensors"
)

// gyroSource is the part of sensors.GyroManager the producer uses.
type gyroSource interface {
	gyro.SampleSource
	Characteristics() (l3gd20.Characteristics, error)
	Config() (l3gd20.ControlRegister1, l3gd20.ControlRegister4, error)
	Name() string
}

type producerStats struct {
	started  time.Time
	samples  uint64
	allFresh uint64
	stale    uint64
	overrun  uint64
	errors   uint64
	lastTemp uint8
}

// producer reads samples from src and publishes them.
type producer struct {
	src     gyroSource
	publish func(topic string, v any) error
	cfg     *config.Config
	stats   producerStats
}

func (p *producer) publishSample(t time.Time) error {
	d, err := p.src.ReadSample()
	if err != nil {
		p.stats.errors++
		return err
	}

	p.stats.samples++
	p.stats.lastTemp = d.Temperature
	switch {
	case d.AllFresh():
		p.stats.allFresh++
	case d.AnyOverrun():
		p.stats.overrun++
	case d.AnyStale():
		p.stats.stale++
	}

	s := gyro.NewSample(p.src.Name(), t, d)
	metrics.ObserveSample(s)
	return p.publish(p.cfg.TopicGyroRaw, s)
}

func (p *producer) publishCharacteristics(t time.Time) (gyro.Characteristics, error) {
	c, err := p.src.Characteristics()
	if err != nil {
		return gyro.Characteristics{}, err
	}
	r1, _, err := p.src.Config()
	if err != nil {
		return gyro.Characteristics{}, fmt.Errorf("%s: read config: %w", p.src.Name(), err)
	}
	gc := gyro.Characteristics{
		Source:          p.src.Name(),
		Time:            t,
		ODRHz:           r1.OutputDataRate().Hz(),
		Bandwidth:       r1.Bandwidth().String(),
		Characteristics: c,
	}
	return gc, p.publish(p.cfg.TopicGyroCharacteristics, gc)
}

func (p *producer) statusLine(now time.Time) string {
	st := p.stats
	return fmt.Sprintf("%s samples (%s all fresh, %s with overrun, %s with stale axes, %s errors), temp raw %d, started %s",
		humanize.Comma(int64(st.samples)),
		humanize.Comma(int64(st.allFresh)),
		humanize.Comma(int64(st.overrun)),
		humanize.Comma(int64(st.stale)),
		humanize.Comma(int64(st.errors)),
		st.lastTemp,
		humanize.RelTime(st.started, now, "ago", "from now"),
	)
}

// run publishes a sample every GYRO_SAMPLE_INTERVAL and the characteristics
// every CHARACTERISTICS_INTERVAL until ctx is done.
func (p *producer) run(ctx context.Context) error {
	p.stats.started = time.Now()

	if gc, err := p.publishCharacteristics(p.stats.started); err != nil {
		log.Warnf("producer: characteristics: %v", err)
	} else {
		log.Infof("producer: ±%d°/s, %.5f°/s per LSB, rate noise %.3f°/s",
			gc.FullScale, gc.Sensitivity, gc.RateNoiseDensity)
	}

	sampleTicker := time.NewTicker(time.Duration(p.cfg.GyroSampleInterval) * time.Millisecond)
	defer sampleTicker.Stop()
	charTicker := time.NewTicker(time.Duration(p.cfg.CharacteristicsInterval) * time.Millisecond)
	defer charTicker.Stop()
	logTicker := time.NewTicker(time.Duration(p.cfg.ConsoleLogInterval) * time.Millisecond)
	defer logTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infof("producer: stopping, %s", p.statusLine(time.Now()))
			return nil
		case t := <-sampleTicker.C:
			if err := p.publishSample(t); err != nil {
				log.Errorf("producer: %v", err)
			}
		case t := <-charTicker.C:
			if _, err := p.publishCharacteristics(t); err != nil {
				log.Errorf("producer: characteristics: %v", err)
			}
		case t := <-logTicker.C:
			log.Info("producer: " + p.statusLine(t))
		}
	}
}

// RunGyroProducer initializes the gyro and publishes to MQTT until ctx is done.
func RunGyroProducer(ctx context.Context) error {
	log.Info("starting l3gd20 gyro producer")
	cfg := config.Get()

	mgr := sensors.GetGyroManager()
	if err := mgr.Init(); err != nil {
		return fmt.Errorf("failed to initialize gyro: %w", err)
	}
	defer mgr.Close()

	if cfg.MetricsPort > 0 {
		go serveMetrics(ctx, cfg.MetricsPort)
	}

	client, err := connectMQTT("producer", cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	p := &producer{
		src: mgr,
		cfg: cfg,
		publish: func(topic string, v any) error {
			return publishJSON(client, topic, v)
		},
	}
	log.Infof("producer: publishing to %s every %d ms", cfg.TopicGyroRaw, cfg.GyroSampleInterval)
	return p.run(ctx)
}

func newMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
}

// serveMetrics exposes the producer's collectors until ctx is done. A listen
// failure is logged and does not stop publishing.
func serveMetrics(ctx context.Context, port int) {
	srv := newMetricsServer(port)
	log.Infof("producer: metrics on %s/metrics", srv.Addr)
	if err := serve(ctx, srv); err != nil {
		log.Errorf("producer: metrics server: %v", err)
	}
}
