// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/fusion"
	"github.com/relabs-tech/head_tracker/internal/pose"
	"github.com/relabs-tech/head_tracker/internal/sensors"
	"github.com/relabs-tech/head_tracker/internal/tracker"
)

// viewportFromConfig maps the VIEWPORT config value onto the tracker enum.
func viewportFromConfig(name string) tracker.ViewportOrientation {
	switch name {
	case "landscape_left":
		return tracker.LandscapeLeft
	case "landscape_right":
		return tracker.LandscapeRight
	case "portrait_upside_down":
		return tracker.PortraitUpsideDown
	default:
		return tracker.Portrait
	}
}

// RunTracker wires the head tracker to the MQTT sample topics, ingests
// external 6-DoF samples, and publishes a fused pose at the configured rate
// until interrupted.
func RunTracker() error {
	log.Println("starting head-tracker fusion service")

	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDTracker)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("tracker: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Build the tracker over MQTT sample producers ----
	accelSource := sensors.NewMQTTProducer(client, cfg.TopicAccel)
	gyroSource := sensors.NewMQTTProducer(client, cfg.TopicGyro)
	ht := tracker.New(fusion.NewGyroIntegrator(), accelSource, gyroSource)
	defer ht.Close()

	ht.Resume()
	log.Printf("tracker: tracking resumed (accel=%s gyro=%s)", cfg.TopicAccel, cfg.TopicGyro)

	// ---- 3) Ingest external 6-DoF samples ----
	sixDoFToken := client.Subscribe(cfg.TopicSixDoF, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s pose.SixDoF
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("tracker: 6-DoF unmarshal error: %v", err)
			return
		}
		ht.AddSixDoFData(s.TimestampNanos, s.Position(), s.Orientation())
	})
	sixDoFToken.Wait()
	if sixDoFToken.Error() != nil {
		return sixDoFToken.Error()
	}
	log.Printf("tracker: subscribed to %s", cfg.TopicSixDoF)

	viewport := viewportFromConfig(cfg.Viewport)
	predictAhead := time.Duration(cfg.PosePredictAhead) * time.Millisecond

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// ---- 4) Publish fused poses at the render rate ----
	ticker := time.NewTicker(time.Duration(cfg.PoseInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			log.Println("tracker: shutting down")
			ht.Pause()
			return nil
		case now := <-ticker.C:
			queryNanos := now.Add(predictAhead).UnixNano()
			position, orientation := ht.GetPose(queryNanos, viewport)

			payload, err := json.Marshal(pose.FromParts(queryNanos, position, orientation))
			if err != nil {
				log.Printf("tracker: pose marshal error: %v", err)
				continue
			}
			if token := client.Publish(cfg.TopicPoseFused, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("tracker: pose publish error: %v", token.Error())
			}
		}
	}
}
