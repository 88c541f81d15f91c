package app

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/imu"
)

// MPU9250 registers used by the producer.
const (
	regSmplrtDiv   = 0x19
	regConfig      = 0x1A
	regGyroConfig  = 0x1B
	regAccelConfig = 0x1C
	regAccelXoutH  = 0x3B
	regPwrMgmt1    = 0x6B
	regWhoAmI      = 0x75

	whoAmIMPU9250 = 0x71
	spiReadFlag   = 0x80
)

// Scale factors at the default full-scale ranges (±2g, ±250°/s).
const (
	accelScale = 9.80665 / 16384.0       // LSB -> m/s²
	gyroScale  = math.Pi / 180.0 / 131.0 // LSB -> rad/s
)

type mpu9250 struct {
	conn spi.Conn
}

func (m *mpu9250) writeRegister(reg, value byte) error {
	return m.conn.Tx([]byte{reg, value}, nil)
}

func (m *mpu9250) readRegisters(reg byte, n int) ([]byte, error) {
	w := make([]byte, n+1)
	w[0] = reg | spiReadFlag
	r := make([]byte, n+1)
	if err := m.conn.Tx(w, r); err != nil {
		return nil, err
	}
	return r[1:], nil
}

func (m *mpu9250) init() error {
	// Wake up, clock from the gyro PLL.
	if err := m.writeRegister(regPwrMgmt1, 0x01); err != nil {
		return fmt.Errorf("wake: %w", err)
	}
	time.Sleep(10 * time.Millisecond)

	id, err := m.readRegisters(regWhoAmI, 1)
	if err != nil {
		return fmt.Errorf("who-am-i: %w", err)
	}
	if id[0] != whoAmIMPU9250 {
		return fmt.Errorf("unexpected WHO_AM_I 0x%02X (want 0x%02X)", id[0], whoAmIMPU9250)
	}

	// DLPF 41 Hz, no sample rate division, default full-scale ranges.
	if err := m.writeRegister(regConfig, 0x03); err != nil {
		return fmt.Errorf("dlpf: %w", err)
	}
	if err := m.writeRegister(regSmplrtDiv, 0x00); err != nil {
		return fmt.Errorf("sample rate divider: %w", err)
	}
	if err := m.writeRegister(regGyroConfig, 0x00); err != nil {
		return fmt.Errorf("gyro range: %w", err)
	}
	if err := m.writeRegister(regAccelConfig, 0x00); err != nil {
		return fmt.Errorf("accel range: %w", err)
	}
	return nil
}

// readBurst reads accel XYZ, temperature and gyro XYZ in one transaction and
// converts to SI units.
func (m *mpu9250) readBurst() (accel, gyro [3]float64, err error) {
	raw, err := m.readRegisters(regAccelXoutH, 14)
	if err != nil {
		return accel, gyro, err
	}
	for i := 0; i < 3; i++ {
		accel[i] = float64(int16(binary.BigEndian.Uint16(raw[2*i:]))) * accelScale
		// raw[6:8] is the temperature, skipped.
		gyro[i] = float64(int16(binary.BigEndian.Uint16(raw[8+2*i:]))) * gyroScale
	}
	return accel, gyro, nil
}

// RunIMUProducer reads the MPU9250 over SPI at the configured interval and
// publishes timestamped accelerometer and gyroscope samples to their topics.
func RunIMUProducer() error {
	log.Println("starting head-tracker IMU producer")

	cfg := config.Get()

	// ---- 1) Initialize periph and open the SPI port ----
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	port, err := spireg.Open(cfg.IMUSPIDevice)
	if err != nil {
		return fmt.Errorf("open SPI port %s: %w", cfg.IMUSPIDevice, err)
	}
	defer port.Close()

	conn, err := port.Connect(physic.MegaHertz, spi.Mode3, 8)
	if err != nil {
		return fmt.Errorf("SPI connect: %w", err)
	}

	dev := &mpu9250{conn: conn}
	if err := dev.init(); err != nil {
		return fmt.Errorf("MPU9250 init: %w", err)
	}
	log.Printf("IMU producer: MPU9250 initialized on %s", cfg.IMUSPIDevice)

	// ---- 2) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDIMU)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("IMU producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 3) Sample and publish ----
	ticker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		accel, gyro, err := dev.readBurst()
		if err != nil {
			log.Printf("IMU producer: read error: %v", err)
			continue
		}
		ts := t.UnixNano()

		samples := []struct {
			topic  string
			sample imu.Sample
		}{
			{cfg.TopicAccel, imu.Sample{
				TimestampNanos: ts, SensorID: imu.SensorAccelerometer,
				X: accel[0], Y: accel[1], Z: accel[2],
			}},
			{cfg.TopicGyro, imu.Sample{
				TimestampNanos: ts, SensorID: imu.SensorGyroscope,
				X: gyro[0], Y: gyro[1], Z: gyro[2],
			}},
		}
		for _, s := range samples {
			payload, err := json.Marshal(s.sample)
			if err != nil {
				log.Printf("IMU producer: marshal error: %v", err)
				continue
			}
			if token := client.Publish(s.topic, 0, false, payload); token.Wait() && token.Error() != nil {
				log.Printf("IMU producer: publish error (%s): %v", s.topic, token.Error())
			}
		}
	}
	return nil
}
