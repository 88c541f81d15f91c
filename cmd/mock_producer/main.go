package main

import (
	"encoding/json"
	"log"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/imu"
	"github.com/relabs-tech/head_tracker/internal/pose"
)

// Publishes synthetic accelerometer, gyroscope and 6-DoF streams so the whole
// pipeline can run on a bench without hardware: the IMU topics carry gravity
// plus a slow yaw rate, the 6-DoF topic a small circular walk.
func main() {
	log.Println("starting head-tracker mock producer")

	if err := config.InitGlobal("head_tracker_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMock)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("MQTT connect error: %v", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("mock producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	publish := func(topic string, v interface{}) {
		payload, err := json.Marshal(v)
		if err != nil {
			log.Printf("mock producer: marshal error: %v", err)
			return
		}
		if token := client.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
			log.Printf("mock producer: publish error (%s): %v", topic, token.Error())
		}
	}

	imuTicker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer imuTicker.Stop()
	sixDoFTicker := time.NewTicker(33 * time.Millisecond)
	defer sixDoFTicker.Stop()

	const yawRate = 0.1 // rad/s
	start := time.Now()

	for {
		select {
		case t := <-imuTicker.C:
			ts := t.UnixNano()
			publish(cfg.TopicAccel, imu.Sample{
				TimestampNanos: ts, SensorID: imu.SensorAccelerometer,
				X: 0, Y: 0, Z: 9.81,
			})
			publish(cfg.TopicGyro, imu.Sample{
				TimestampNanos: ts, SensorID: imu.SensorGyroscope,
				X: 0, Y: 0, Z: yawRate,
			})
		case t := <-sixDoFTicker.C:
			elapsed := t.Sub(start).Seconds()
			yaw := yawRate * elapsed
			publish(cfg.TopicSixDoF, pose.SixDoF{
				TimestampNanos: t.UnixNano(),
				PX:             float32(0.5 * math.Cos(elapsed*0.2)),
				PY:             1.6,
				PZ:             float32(0.5 * math.Sin(elapsed*0.2)),
				QX:             0,
				QY:             0,
				QZ:             float32(math.Sin(yaw / 2)),
				QW:             float32(math.Cos(yaw / 2)),
			})
		}
	}
}
