package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "head_tracker_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
# comment line
MQTT_BROKER=tcp://localhost:1883
TOPIC_ACCEL=headtracker/imu/accel
TOPIC_GYRO=headtracker/imu/gyro
TOPIC_SIXDOF=headtracker/sixdof
TOPIC_POSE_FUSED=headtracker/pose/fused
IMU_SAMPLE_INTERVAL=10
POSE_INTERVAL=16
POSE_PREDICT_AHEAD=50
VIEWPORT=portrait
WEB_SERVER_PORT=8080
SIXDOF_BAUD_RATE=115200
`

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "headtracker/imu/accel", cfg.TopicAccel)
	assert.Equal(t, "headtracker/pose/fused", cfg.TopicPoseFused)
	assert.Equal(t, 10, cfg.IMUSampleInterval)
	assert.Equal(t, 16, cfg.PoseInterval)
	assert.Equal(t, 50, cfg.PosePredictAhead)
	assert.Equal(t, "portrait", cfg.Viewport)
	assert.Equal(t, 8080, cfg.WebServerPort)
	assert.Equal(t, 115200, cfg.SixDoFBaudRate)
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(writeConfig(t, "MQTT_BROKER=tcp://localhost:1883\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOPIC_ACCEL")
}

func TestLoadUnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "NO_SUCH_KEY=1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestLoadInvalidViewport(t *testing.T) {
	_, err := Load(writeConfig(t, "VIEWPORT=upside\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIEWPORT")
}

func TestLoadInvalidLine(t *testing.T) {
	_, err := Load(writeConfig(t, "this is not a key value pair\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
