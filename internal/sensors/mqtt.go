// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"encoding/json"
	"log"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/head_tracker/internal/imu"
)

// MQTTProducer delivers samples published as JSON on a single MQTT topic.
// Samples arrive on the paho client's delivery goroutine.
type MQTTProducer struct {
	client mqtt.Client
	topic  string

	mu      sync.Mutex
	started bool
}

// NewMQTTProducer wraps an already-connected MQTT client. The client is
// shared, not owned: Stop unsubscribes but never disconnects it.
func NewMQTTProducer(client mqtt.Client, topic string) *MQTTProducer {
	return &MQTTProducer{client: client, topic: topic}
}

// Start subscribes to the topic and forwards each decoded sample to h.
func (p *MQTTProducer) Start(h Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	token := p.client.Subscribe(p.topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s imu.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("sensors: sample unmarshal error on %s: %v", p.topic, err)
			return
		}
		h(s)
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	p.started = true
	return nil
}

// Stop unsubscribes from the topic. Safe to call when not started.
func (p *MQTTProducer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	token := p.client.Unsubscribe(p.topic)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("sensors: unsubscribe error on %s: %v", p.topic, err)
	}
	p.started = false
}
