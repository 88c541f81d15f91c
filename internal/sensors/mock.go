// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"sync"
	"time"

	"github.com/relabs-tech/head_tracker/internal/imu"
)

// MockProducer generates smooth synthetic samples on a ticker, for benchtop
// use and tests without hardware. Accelerometer mocks emit gravity plus a
// gentle sway; gyroscope mocks emit a slow sinusoidal yaw rate.
type MockProducer struct {
	sensorID int
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewMockProducer creates a producer for the given sensor ID emitting one
// sample per interval.
func NewMockProducer(sensorID int, interval time.Duration) *MockProducer {
	return &MockProducer{sensorID: sensorID, interval: interval}
}

// Start launches the delivery goroutine.
func (p *MockProducer) Start(h Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return nil
	}
	stop := make(chan struct{})
	p.stop = stop
	start := time.Now()
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				h(p.sample(now, now.Sub(start).Seconds()))
			}
		}
	}()
	return nil
}

// Stop ends sample delivery. Safe to call when not started.
func (p *MockProducer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop == nil {
		return
	}
	close(p.stop)
	p.stop = nil
}

func (p *MockProducer) sample(now time.Time, elapsed float64) imu.Sample {
	s := imu.Sample{
		TimestampNanos: now.UnixNano(),
		SensorID:       p.sensorID,
	}
	if p.sensorID == imu.SensorAccelerometer {
		s.X = 0.3 * math.Sin(elapsed*0.8)
		s.Y = 0.3 * math.Cos(elapsed*0.5)
		s.Z = 9.81
	} else {
		s.Z = 0.2 * math.Sin(elapsed*0.6)
	}
	return s
}
