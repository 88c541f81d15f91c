package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDTracker string
	MQTTClientIDIMU     string
	MQTTClientIDSixDoF  string
	MQTTClientIDWeb     string
	MQTTClientIDConsole string
	MQTTClientIDDisplay string
	MQTTClientIDMock    string

	// Topics
	TopicAccel     string
	TopicGyro      string
	TopicSixDoF    string
	TopicPoseFused string

	// IMU Hardware
	IMUSPIDevice string

	// 6-DoF source (external visual tracker on a serial port)
	SixDoFSerialPort string
	SixDoFBaudRate   int

	// Timing
	IMUSampleInterval int // milliseconds
	PoseInterval      int // milliseconds between published poses
	PosePredictAhead  int // milliseconds of forward prediction per pose query

	// Viewport orientation used by the tracker service:
	// "landscape_left", "landscape_right", "portrait", "portrait_upside_down"
	Viewport string

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for
//     initialization, read lock for Get() allows concurrent readers.
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_TRACKER":
		c.MQTTClientIDTracker = value
	case "MQTT_CLIENT_ID_IMU":
		c.MQTTClientIDIMU = value
	case "MQTT_CLIENT_ID_SIXDOF":
		c.MQTTClientIDSixDoF = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_MOCK":
		c.MQTTClientIDMock = value

	// Topics
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_GYRO":
		c.TopicGyro = value
	case "TOPIC_SIXDOF":
		c.TopicSixDoF = value
	case "TOPIC_POSE_FUSED":
		c.TopicPoseFused = value

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value

	// 6-DoF source
	case "SIXDOF_SERIAL_PORT":
		c.SixDoFSerialPort = value
	case "SIXDOF_BAUD_RATE":
		baud, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SIXDOF_BAUD_RATE %q: %w", value, err)
		}
		c.SixDoFBaudRate = baud

	// Timing
	case "IMU_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.IMUSampleInterval = interval
	case "POSE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid POSE_INTERVAL %q: %w", value, err)
		}
		c.PoseInterval = interval
	case "POSE_PREDICT_AHEAD":
		ahead, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid POSE_PREDICT_AHEAD %q: %w", value, err)
		}
		if ahead < 0 {
			return fmt.Errorf("POSE_PREDICT_AHEAD must be >= 0, got %d", ahead)
		}
		c.PosePredictAhead = ahead

	// Viewport
	case "VIEWPORT":
		switch value {
		case "landscape_left", "landscape_right", "portrait", "portrait_upside_down":
			c.Viewport = value
		default:
			return fmt.Errorf("invalid VIEWPORT %q", value)
		}

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

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
	if c.TopicAccel == "" {
		return fmt.Errorf("TOPIC_ACCEL is required")
	}
	if c.TopicGyro == "" {
		return fmt.Errorf("TOPIC_GYRO is required")
	}
	if c.TopicSixDoF == "" {
		return fmt.Errorf("TOPIC_SIXDOF is required")
	}
	if c.TopicPoseFused == "" {
		return fmt.Errorf("TOPIC_POSE_FUSED is required")
	}
	if c.IMUSampleInterval == 0 {
		return fmt.Errorf("IMU_SAMPLE_INTERVAL is required")
	}
	if c.PoseInterval == 0 {
		return fmt.Errorf("POSE_INTERVAL is required")
	}
	if c.Viewport == "" {
		return fmt.Errorf("VIEWPORT is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
