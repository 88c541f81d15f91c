// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors provides the sample producers the head tracker subscribes
// to. A producer pushes timestamped samples to a registered handler on its
// own delivery goroutine; producers are shared and may outlive any single
// subscriber.
package sensors

import (
	"github.com/relabs-tech/head_tracker/internal/imu"
)

// Handler receives samples pushed by a Producer. It is invoked on the
// producer's delivery goroutine, not the caller's.
type Handler func(imu.Sample)

// Producer delivers a stream of sensor samples to one registered handler.
// Start begins delivery to the handler; Stop ends it. Stop is idempotent.
type Producer interface {
	Start(h Handler) error
	Stop()
}
