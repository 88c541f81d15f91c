package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/pose"
)

// RunConsole subscribes to the fused pose and external 6-DoF topics and
// pretty-prints them until interrupted.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to fused pose
	poseToken := client.Subscribe(cfg.TopicPoseFused, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p pose.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: pose unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[POSE]  x=%7.3f y=%7.3f z=%7.3f  ROLL=%7.2f PITCH=%7.2f YAW=%7.2f\n",
			p.PX, p.PY, p.PZ, p.Roll, p.Pitch, p.Yaw,
		)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicPoseFused)

	// Subscribe to the external 6-DoF stream
	sixDoFToken := client.Subscribe(cfg.TopicSixDoF, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s pose.SixDoF
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: 6-DoF unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[6DOF]  t=%d  x=%7.3f y=%7.3f z=%7.3f  q=(%.3f %.3f %.3f %.3f)\n",
			s.TimestampNanos, s.PX, s.PY, s.PZ, s.QX, s.QY, s.QZ, s.QW,
		)
	})
	sixDoFToken.Wait()
	if sixDoFToken.Error() != nil {
		return sixDoFToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicSixDoF)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
