// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"encoding/json"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/pose"
)

// RunSixDoFProducer reads line-delimited JSON pose records from the external
// visual tracker's serial port and republishes them on the 6-DoF MQTT topic.
func RunSixDoFProducer() error {
	log.Println("starting head-tracker 6-DoF producer")

	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDSixDoF)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("6-DoF producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open the tracker serial port ----
	serialOpts := serial.OpenOptions{
		PortName:        cfg.SixDoFSerialPort,
		BaudRate:        uint(cfg.SixDoFBaudRate),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Printf("6-DoF producer: serial port opened on %s at %d baud",
		serialOpts.PortName, serialOpts.BaudRate)

	reader := bufio.NewReader(port)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("6-DoF producer: serial read error: %v", err)
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "{") {
			// Partial line or tracker chatter.
			continue
		}

		var s pose.SixDoF
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			log.Printf("6-DoF producer: record parse error: %v (line: %q)", err, line)
			continue
		}
		if s.TimestampNanos == 0 {
			// Tracker firmware without timestamps; stamp on arrival.
			s.TimestampNanos = time.Now().UnixNano()
		}

		payload, err := json.Marshal(s)
		if err != nil {
			log.Printf("6-DoF producer: marshal error: %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicSixDoF, 0, false, payload); token.Wait() && token.Error() != nil {
			log.Printf("6-DoF producer: publish error: %v", token.Error())
		}
	}
}
