// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/l3gd20/internal/config"
	"github.com/relabs-tech/l3gd20/internal/gyro"
	"github.com/relabs-tech/l3gd20/internal/metrics"
	"github.com/relabs-tech/l3gd20/internal/sensors"
)

// SPI clock limits accepted by set_spi_speed. The L3GD20 is rated to 10 MHz.
const (
	minSPISpeed = 10_000
	maxSPISpeed = 10_000_000
)

// registerDevice is the part of sensors.GyroManager the debugger drives.
type registerDevice interface {
	gyro.SampleSource
	Name() string
	Init() error
	ReadRegister(addr byte) (byte, error)
	WriteRegister(addr, value byte) error
	ReadAllRegisters() (map[byte]byte, error)
	ExportRegisterConfig() (map[byte]byte, error)
	SPISpeed() int64
	SetSPISpeed(hz int64) error
	GetRegisterMap() []sensors.RegisterInfo
}

// RegisterDebugSession holds WebSocket connection state for register debugging
type RegisterDebugSession struct {
	Conn     *websocket.Conn
	dev      registerDevice
	writable []addrRange
}

// RegisterCmd is any request sent by the debugger page.
type RegisterCmd struct {
	Action   string `json:"action"` // get_map, read, read_all, write, init, set_spi_speed, export_config
	Address  string `json:"addr,omitempty"`
	Value    string `json:"value,omitempty"`
	SPISpeed int64  `json:"spi_speed,omitempty"`
}

// RegisterResponse is every message sent back to the page.
type RegisterResponse struct {
	Type        string                 `json:"type"` // "register_data", "register_map", "status", "export_config", "error"
	Device      string                 `json:"device,omitempty"`
	Address     string                 `json:"addr,omitempty"`
	Value       string                 `json:"value,omitempty"`
	Registers   map[string]string      `json:"registers,omitempty"`
	Timestamp   string                 `json:"timestamp,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Status      string                 `json:"status,omitempty"`
	SPISpeed    int64                  `json:"spi_speed,omitempty"`
	RegisterMap []sensors.RegisterInfo `json:"register_map,omitempty"`
	Config      string                 `json:"config,omitempty"`
	Filename    string                 `json:"filename,omitempty"`
}

// RegisterConfigFile is the exported register configuration.
type RegisterConfigFile struct {
	Version   int               `json:"version"`
	Device    string            `json:"device"`
	Timestamp string            `json:"timestamp"`
	Registers map[string]string `json:"registers"` // hex address -> hex value
}

// NewRegisterDebugHandler returns the WebSocket handler for the register
// debugger. Writes are limited to the addresses in allowedRanges, e.g.
// "0x20-0x25,0x2E"; an empty string allows none.
func NewRegisterDebugHandler(dev registerDevice, allowedRanges string) (http.HandlerFunc, error) {
	writable, err := parseAddrRanges(allowedRanges)
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("register_debug: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		s := &RegisterDebugSession{Conn: conn, dev: dev, writable: writable}
		if err := s.sendRegisterMap(); err != nil {
			log.Warnf("register_debug: error sending register map: %v", err)
			return
		}
		s.loop()
	}, nil
}

func (s *RegisterDebugSession) loop() {
	for {
		var cmd RegisterCmd
		if err := s.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("register_debug: websocket error: %v", err)
			}
			return
		}

		var resp RegisterResponse
		switch cmd.Action {
		case "get_map":
			resp = s.registerMap()
		case "read":
			resp = s.handleRead(cmd)
		case "read_all":
			resp = s.handleReadAll()
		case "write":
			resp = s.handleWrite(cmd)
		case "init":
			resp = s.handleInit()
		case "set_spi_speed":
			resp = s.handleSetSPISpeed(cmd)
		case "export_config":
			resp = s.handleExportConfig()
		case "":
			resp = errorResponse("missing or invalid action field")
		default:
			resp = errorResponse(fmt.Sprintf("unknown action: %s", cmd.Action))
		}
		if err := s.Conn.WriteJSON(resp); err != nil {
			log.Warnf("register_debug: write error: %v", err)
			return
		}
	}
}

func errorResponse(message string) RegisterResponse {
	return RegisterResponse{Type: "error", Message: message}
}

func timestamp() string { return time.Now().Format(time.RFC3339) }

func hexMap(regs map[byte]byte) map[string]string {
	out := make(map[string]string, len(regs))
	for addr, v := range regs {
		out[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", v)
	}
	return out
}

func (s *RegisterDebugSession) handleRead(cmd RegisterCmd) RegisterResponse {
	addr, err := parseByte(cmd.Address)
	if err != nil {
		return errorResponse(fmt.Sprintf("invalid address format: %q", cmd.Address))
	}
	v, err := s.dev.ReadRegister(addr)
	if err != nil {
		return errorResponse(fmt.Sprintf("read error: %v", err))
	}
	return RegisterResponse{
		Type:      "register_data",
		Device:    s.dev.Name(),
		Address:   fmt.Sprintf("0x%02X", addr),
		Value:     fmt.Sprintf("0x%02X", v),
		Timestamp: timestamp(),
	}
}

func (s *RegisterDebugSession) handleReadAll() RegisterResponse {
	regs, err := s.dev.ReadAllRegisters()
	if err != nil {
		return errorResponse(fmt.Sprintf("read all error: %v", err))
	}
	return RegisterResponse{
		Type:      "register_data",
		Device:    s.dev.Name(),
		Registers: hexMap(regs),
		Timestamp: timestamp(),
	}
}

func (s *RegisterDebugSession) handleWrite(cmd RegisterCmd) RegisterResponse {
	addr, err := parseByte(cmd.Address)
	if err != nil {
		return errorResponse(fmt.Sprintf("invalid address format: %q", cmd.Address))
	}
	v, err := parseByte(cmd.Value)
	if err != nil {
		return errorResponse(fmt.Sprintf("invalid value format: %q", cmd.Value))
	}
	if !inRanges(addr, s.writable) {
		return errorResponse(fmt.Sprintf("register 0x%02X not in allowed write ranges", addr))
	}
	if err := s.dev.WriteRegister(addr, v); err != nil {
		return errorResponse(fmt.Sprintf("write error: %v", err))
	}
	log.Infof("register_debug: wrote 0x%02X to 0x%02X", v, addr)
	return RegisterResponse{
		Type:      "register_data",
		Device:    s.dev.Name(),
		Address:   fmt.Sprintf("0x%02X", addr),
		Value:     fmt.Sprintf("0x%02X", v),
		Timestamp: timestamp(),
		Message:   "write successful",
	}
}

func (s *RegisterDebugSession) handleInit() RegisterResponse {
	if err := s.dev.Init(); err != nil {
		return errorResponse(fmt.Sprintf("reinit error: %v", err))
	}
	return RegisterResponse{
		Type:     "status",
		Device:   s.dev.Name(),
		Status:   "initialized",
		SPISpeed: s.dev.SPISpeed(),
		Message:  "gyro reinitialized successfully",
	}
}

func (s *RegisterDebugSession) handleSetSPISpeed(cmd RegisterCmd) RegisterResponse {
	hz := cmd.SPISpeed
	if hz < minSPISpeed {
		hz = minSPISpeed
	}
	if hz > maxSPISpeed {
		hz = maxSPISpeed
	}
	if err := s.dev.SetSPISpeed(hz); err != nil {
		return errorResponse(fmt.Sprintf("set spi speed error: %v", err))
	}
	return RegisterResponse{
		Type:     "status",
		Device:   s.dev.Name(),
		SPISpeed: hz,
		Message:  "SPI speed updated",
	}
}

func (s *RegisterDebugSession) handleExportConfig() RegisterResponse {
	regs, err := s.dev.ExportRegisterConfig()
	if err != nil {
		return errorResponse(fmt.Sprintf("export error: %v", err))
	}
	t := time.Now()
	file := RegisterConfigFile{
		Version:   1,
		Device:    s.dev.Name(),
		Timestamp: t.Format(time.RFC3339),
		Registers: hexMap(regs),
	}
	b, err := json.Marshal(file)
	if err != nil {
		return errorResponse(fmt.Sprintf("export error: %v", err))
	}
	return RegisterResponse{
		Type:     "export_config",
		Device:   s.dev.Name(),
		Message:  "config exported",
		Config:   string(b),
		Filename: fmt.Sprintf("%s_%s_registers.json", s.dev.Name(), t.Format("20060102_150405")),
	}
}

func (s *RegisterDebugSession) registerMap() RegisterResponse {
	return RegisterResponse{
		Type:        "register_map",
		Device:      s.dev.Name(),
		RegisterMap: s.dev.GetRegisterMap(),
	}
}

func (s *RegisterDebugSession) sendRegisterMap() error {
	return s.Conn.WriteJSON(s.registerMap())
}

// NewGyroDataHandler serves one live sample per request.
func NewGyroDataHandler(src registerDevice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		d, err := src.ReadSample()
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error": %q}`, err.Error()), http.StatusInternalServerError)
			return
		}
		writeJSON(w, gyro.NewSample(src.Name(), time.Now(), d))
	}
}

// addrRange is an inclusive register address range.
type addrRange struct{ lo, hi byte }

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	return byte(v), err
}

// parseAddrRanges parses "0x20-0x25,0x2E" into address ranges.
func parseAddrRanges(s string) ([]addrRange, error) {
	var out []addrRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		loStr, hiStr, isRange := strings.Cut(part, "-")
		lo, err := parseByte(loStr)
		if err != nil {
			return nil, fmt.Errorf("invalid register range %q: %w", part, err)
		}
		hi := lo
		if isRange {
			if hi, err = parseByte(hiStr); err != nil {
				return nil, fmt.Errorf("invalid register range %q: %w", part, err)
			}
		}
		if hi < lo {
			return nil, fmt.Errorf("invalid register range %q: end before start", part)
		}
		out = append(out, addrRange{lo, hi})
	}
	return out, nil
}

func inRanges(addr byte, ranges []addrRange) bool {
	for _, r := range ranges {
		if addr >= r.lo && addr <= r.hi {
			return true
		}
	}
	return false
}

// RunRegisterDebug serves the register debugger until ctx is done. It keeps
// running when the gyro fails to initialize so init can be retried.
func RunRegisterDebug(ctx context.Context) error {
	cfg := config.Get()

	mgr := sensors.GetGyroManager()
	if err := mgr.Init(); err != nil {
		log.Warnf("register_debug: gyro initialization failed: %v", err)
	} else {
		log.Infof("register_debug: %s available at %d Hz", mgr.Name(), mgr.SPISpeed())
	}
	defer mgr.Close()

	ws, err := NewRegisterDebugHandler(mgr, cfg.RegisterDebugAllowedRanges)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws)
	mux.HandleFunc("/api/gyro", NewGyroDataHandler(mgr))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.RegisterDebugPort), Handler: mux}
	log.Infof("register debug tool listening on %s", srv.Addr)
	return serve(ctx, srv)
}
