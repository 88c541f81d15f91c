// Package imu defines the raw inertial sample exchanged between the sensor
// producers and the head tracker.
package imu

// Sensor identifiers carried in Sample.SensorID.
const (
	SensorAccelerometer = 0
	SensorGyroscope     = 1
)

// Sample represents a single timestamped accelerometer or gyroscope reading.
// Timestamps are nanoseconds on a monotonic epoch shared by every producer.
// Accelerometer data is in m/s², gyroscope data in rad/s.
type Sample struct {
	TimestampNanos int64 `json:"timestamp_ns"`
	SensorID       int   `json:"sensor_id"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
