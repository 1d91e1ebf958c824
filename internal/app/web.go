package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/l3gd20/internal/config"
	"github.com/relabs-tech/l3gd20/internal/gyro"
	"github.com/relabs-tech/l3gd20/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local network tool
	},
}

// gyroState keeps the latest MQTT messages and fans samples out to
// websocket clients.
type gyroState struct {
	mu     sync.RWMutex
	sample *gyro.Sample
	chars  *gyro.Characteristics
	subs   map[chan gyro.Sample]struct{}
}

func newGyroState() *gyroState {
	return &gyroState{subs: make(map[chan gyro.Sample]struct{})}
}

func (g *gyroState) setSample(s gyro.Sample) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sample = &s
	for ch := range g.subs {
		select {
		case ch <- s:
		default: // slow client, drop
		}
	}
}

func (g *gyroState) setCharacteristics(c gyro.Characteristics) {
	g.mu.Lock()
	g.chars = &c
	g.mu.Unlock()
}

func (g *gyroState) subscribe() chan gyro.Sample {
	ch := make(chan gyro.Sample, 16)
	g.mu.Lock()
	g.subs[ch] = struct{}{}
	g.mu.Unlock()
	return ch
}

func (g *gyroState) unsubscribe(ch chan gyro.Sample) {
	g.mu.Lock()
	delete(g.subs, ch)
	g.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("web: json encode error: %v", err)
	}
}

func (g *gyroState) handleSample(w http.ResponseWriter, _ *http.Request) {
	g.mu.RLock()
	s := g.sample
	g.mu.RUnlock()
	if s == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, s)
}

func (g *gyroState) handleCharacteristics(w http.ResponseWriter, _ *http.Request) {
	g.mu.RLock()
	c := g.chars
	g.mu.RUnlock()
	if c == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, c)
}

// handleStream pushes every sample to a websocket client until it goes away.
func (g *gyroState) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := g.subscribe()
	defer g.unsubscribe(ch)

	// Reader goroutine only detects the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case s := <-ch:
			conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if err := conn.WriteJSON(s); err != nil {
				log.Debugf("web: websocket write error: %v", err)
				return
			}
		}
	}
}

func newWebMux(g *gyroState, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/gyro", g.handleSample)
	mux.HandleFunc("/api/characteristics", g.handleCharacteristics)
	mux.HandleFunc("/ws", g.handleStream)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	return mux
}

// serve runs srv until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// RunWeb subscribes to the gyro topics and serves them over HTTP until ctx
// is done.
func RunWeb(ctx context.Context) error {
	cfg := config.Get()
	metrics.Register()

	client, err := connectMQTT("web", cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	state := newGyroState()
	if err := subscribeJSON(client, "web", cfg.TopicGyroRaw, func(s gyro.Sample) {
		metrics.ObserveSample(s)
		state.setSample(s)
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, "web", cfg.TopicGyroCharacteristics, state.setCharacteristics); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler: newWebMux(state, "web"),
	}
	log.Infof("web server listening on %s", srv.Addr)
	return serve(ctx, srv)
}
