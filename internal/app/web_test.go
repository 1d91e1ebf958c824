package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/l3gd20/internal/gyro"
	"github.com/relabs-tech/l3gd20/internal/l3gd20"
)

func testSample(x int16) gyro.Sample {
	return gyro.NewSample("gyro", time.Unix(1700000000, 0).UTC(), l3gd20.NewSensorData(30, x, 2, 3, 0x07))
}

func TestWebAPIGyro(t *testing.T) {
	state := newGyroState()
	srv := httptest.NewServer(newWebMux(state, t.TempDir()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/gyro")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status before data = %d", resp.StatusCode)
	}

	state.setSample(testSample(-7))
	resp, err = http.Get(srv.URL + "/api/gyro")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got gyro.Sample
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.X.Raw != -7 || !got.AllFresh || got.Temperature != 30 {
		t.Fatalf("sample = %+v", got)
	}
}

func TestWebAPICharacteristics(t *testing.T) {
	state := newGyroState()
	srv := httptest.NewServer(newWebMux(state, t.TempDir()))
	defer srv.Close()

	state.setCharacteristics(gyro.Characteristics{
		ODRHz:           380,
		Bandwidth:       "medium",
		Characteristics: l3gd20.ComputeCharacteristics(l3gd20.D2000, l3gd20.Hz380, l3gd20.Medium, 0),
	})
	resp, err := http.Get(srv.URL + "/api/characteristics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["full_scale_dps"] != float64(2000) || got["odr_hz"] != float64(380) {
		t.Fatalf("characteristics = %v", got)
	}
}

func TestWebStream(t *testing.T) {
	state := newGyroState()
	srv := httptest.NewServer(newWebMux(state, t.TempDir()))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		state.mu.RLock()
		n := len(state.subs)
		state.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	state.setSample(testSample(42))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got gyro.Sample
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.X.Raw != 42 {
		t.Fatalf("streamed X = %d", got.X.Raw)
	}
}

func TestWebMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(newWebMux(newGyroState(), t.TempDir()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
