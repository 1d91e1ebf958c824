package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix that overrides file values,
// e.g. L3GD20_GYRO_SPI_DEVICE.
const EnvPrefix = "L3GD20"

// Bus backends.
const (
	BackendPeriph = "periph"
	BackendEmbd   = "embd"
)

// Config holds all application configuration values.
type Config struct {
	// Gyro hardware
	GyroBusBackend string // "periph" or "embd"
	GyroSPIDevice  string // periph port name, e.g. "/dev/spidev0.0"
	GyroCSPin      string // GPIO used as chip select; empty means hardware CS
	GyroSPISpeedHz int64
	GyroSPIChannel byte // embd only

	// Gyro configuration applied at startup
	// Output data rate: 0=95Hz, 1=190Hz, 2=380Hz, 3=760Hz
	GyroODR byte
	// Bandwidth: 0=narrowest .. 3=wide
	GyroBandwidth byte
	// Full scale: 0=±250°/s, 1=±500°/s, 2=±2000°/s, 3=±2000°/s
	GyroFullScale    byte
	GyroDataReadyInt bool

	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicGyroRaw             string
	TopicGyroCharacteristics string

	// Timing
	GyroSampleInterval      int // milliseconds
	CharacteristicsInterval int // milliseconds
	ConsoleLogInterval      int // milliseconds

	// Web Server
	WebServerPort int

	// Prometheus scrape port of gyro_producer, 0 disables it
	MetricsPort int

	// Register debugger
	RegisterDebugPort          int
	RegisterDebugAllowedRanges string // e.g. "0x20-0x25,0x2E"

	// Display
	DisplayI2CBus         string
	DisplayUpdateInterval int // milliseconds
}

// Keys lists every accepted configuration key.
var Keys = []string{
	"GYRO_BUS_BACKEND",
	"GYRO_SPI_DEVICE",
	"GYRO_CS_PIN",
	"GYRO_SPI_SPEED_HZ",
	"GYRO_SPI_CHANNEL",
	"GYRO_ODR",
	"GYRO_BANDWIDTH",
	"GYRO_FULL_SCALE",
	"GYRO_DATA_READY_INT",
	"MQTT_BROKER",
	"MQTT_CLIENT_ID_PRODUCER",
	"MQTT_CLIENT_ID_CONSOLE",
	"MQTT_CLIENT_ID_WEB",
	"MQTT_CLIENT_ID_DISPLAY",
	"TOPIC_GYRO_RAW",
	"TOPIC_GYRO_CHARACTERISTICS",
	"GYRO_SAMPLE_INTERVAL",
	"CHARACTERISTICS_INTERVAL",
	"CONSOLE_LOG_INTERVAL",
	"WEB_SERVER_PORT",
	"METRICS_PORT",
	"REGISTER_DEBUG_PORT",
	"REGISTER_DEBUG_ALLOWED_RANGES",
	"DISPLAY_I2C_BUS",
	"DISPLAY_UPDATE_INTERVAL",
}

// Package-level singleton: InitGlobal sets it once, Get reads it.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used for keys the file leaves out.
func Default() *Config {
	return &Config{
		GyroBusBackend:           BackendPeriph,
		GyroSPIDevice:            "/dev/spidev0.0",
		GyroSPISpeedHz:           1_000_000,
		MQTTBroker:               "tcp://localhost:1883",
		MQTTClientIDProducer:     "l3gd20-producer",
		MQTTClientIDConsole:      "l3gd20-console",
		MQTTClientIDWeb:          "l3gd20-web",
		MQTTClientIDDisplay:      "l3gd20-display",
		TopicGyroRaw:             "l3gd20/gyro/raw",
		TopicGyroCharacteristics: "l3gd20/gyro/characteristics",
		GyroSampleInterval:       20,
		CharacteristicsInterval:  5000,
		ConsoleLogInterval:       1000,
		WebServerPort:            8080,
		MetricsPort:              9102,
		RegisterDebugPort:        8081,
		DisplayUpdateInterval:    200,
	}
}

// Load reads the KEY=VALUE configuration file and returns a Config struct.
// Environment variables prefixed with EnvPrefix take precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("env")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	known := make(map[string]bool, len(Keys))
	for _, k := range Keys {
		known[strings.ToLower(k)] = true
	}
	for _, k := range v.AllKeys() {
		if !known[k] {
			return nil, fmt.Errorf("unknown config key: %q", strings.ToUpper(k))
		}
	}

	cfg := Default()
	for _, key := range Keys {
		lk := strings.ToLower(key)
		if !v.IsSet(lk) {
			continue
		}
		if err := cfg.setValue(key, strings.TrimSpace(v.GetString(lk))); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseRange(key, value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, n)
	}
	return n, nil
}

func parseInterval(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Gyro hardware
	case "GYRO_BUS_BACKEND":
		switch value {
		case BackendPeriph, BackendEmbd:
			c.GyroBusBackend = value
		default:
			return fmt.Errorf("GYRO_BUS_BACKEND must be %q or %q, got %q", BackendPeriph, BackendEmbd, value)
		}
	case "GYRO_SPI_DEVICE":
		c.GyroSPIDevice = value
	case "GYRO_CS_PIN":
		c.GyroCSPin = value
	case "GYRO_SPI_SPEED_HZ":
		hz, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid GYRO_SPI_SPEED_HZ %q: %w", value, err)
		}
		// 10 MHz is the device maximum.
		if hz <= 0 || hz > 10_000_000 {
			return fmt.Errorf("GYRO_SPI_SPEED_HZ must be 1-10000000, got %d", hz)
		}
		c.GyroSPISpeedHz = hz
	case "GYRO_SPI_CHANNEL":
		n, err := parseRange(key, value, 0, 1)
		if err != nil {
			return err
		}
		c.GyroSPIChannel = byte(n)

	// Gyro configuration
	case "GYRO_ODR":
		n, err := parseRange(key, value, 0, 3)
		if err != nil {
			return fmt.Errorf("%w (0=95Hz, 1=190Hz, 2=380Hz, 3=760Hz)", err)
		}
		c.GyroODR = byte(n)
	case "GYRO_BANDWIDTH":
		n, err := parseRange(key, value, 0, 3)
		if err != nil {
			return err
		}
		c.GyroBandwidth = byte(n)
	case "GYRO_FULL_SCALE":
		n, err := parseRange(key, value, 0, 3)
		if err != nil {
			return fmt.Errorf("%w (0=±250°/s, 1=±500°/s, 2,3=±2000°/s)", err)
		}
		c.GyroFullScale = byte(n)
	case "GYRO_DATA_READY_INT":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid GYRO_DATA_READY_INT %q: %w", value, err)
		}
		c.GyroDataReadyInt = b

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_GYRO_RAW":
		c.TopicGyroRaw = value
	case "TOPIC_GYRO_CHARACTERISTICS":
		c.TopicGyroCharacteristics = value

	// Timing
	case "GYRO_SAMPLE_INTERVAL":
		n, err := parseInterval(key, value)
		if err != nil {
			return err
		}
		c.GyroSampleInterval = n
	case "CHARACTERISTICS_INTERVAL":
		n, err := parseInterval(key, value)
		if err != nil {
			return err
		}
		c.CharacteristicsInterval = n
	case "CONSOLE_LOG_INTERVAL":
		n, err := parseInterval(key, value)
		if err != nil {
			return err
		}
		c.ConsoleLogInterval = n

	// Servers
	case "WEB_SERVER_PORT":
		n, err := parseRange(key, value, 1, 65535)
		if err != nil {
			return err
		}
		c.WebServerPort = n
	case "METRICS_PORT":
		n, err := parseRange(key, value, 0, 65535)
		if err != nil {
			return err
		}
		c.MetricsPort = n
	case "REGISTER_DEBUG_PORT":
		n, err := parseRange(key, value, 1, 65535)
		if err != nil {
			return err
		}
		c.RegisterDebugPort = n
	case "REGISTER_DEBUG_ALLOWED_RANGES":
		c.RegisterDebugAllowedRanges = value

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		n, err := parseInterval(key, value)
		if err != nil {
			return err
		}
		c.DisplayUpdateInterval = n

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.GyroBusBackend == BackendPeriph && c.GyroSPIDevice == "" {
		return fmt.Errorf("GYRO_SPI_DEVICE is required")
	}
	if c.GyroSampleInterval <= 0 {
		return fmt.Errorf("GYRO_SAMPLE_INTERVAL must be positive")
	}
	if c.CharacteristicsInterval <= 0 {
		return fmt.Errorf("CHARACTERISTICS_INTERVAL must be positive")
	}
	if c.ConsoleLogInterval <= 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL must be positive")
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
