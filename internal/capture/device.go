package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoDevice is returned when the manager was built with zero slots
var ErrNoDevice = errors.New("no capture device available")

// Options configures a capture lease and frame processing
type Options struct {
	// FacingFront marks a front ("selfie") camera; its frames are
	// mirrored for preview and need un-mirroring on capture.
	FacingFront bool
}

// Lease represents exclusive use of one capture slot. Release is
// idempotent; every acquired lease must be released exactly once.
type Lease struct {
	ID          string
	FacingFront bool

	release sync.Once
	manager *DeviceManager
}

// Release returns the slot to the manager
func (l *Lease) Release() {
	l.release.Do(func() {
		<-l.manager.slots
		l.manager.logger.Debug("capture lease released", zap.String("lease_id", l.ID))
	})
}

// DeviceManager owns a bounded set of capture slots. It stands in for
// exclusive camera hardware access: at most `slots` captures run at once.
type DeviceManager struct {
	slots  chan struct{}
	logger *zap.Logger
}

// NewDeviceManager creates a manager with the given number of slots
func NewDeviceManager(slots int, logger *zap.Logger) (*DeviceManager, error) {
	if slots <= 0 {
		return nil, fmt.Errorf("capture slots must be positive, got %d", slots)
	}

	return &DeviceManager{
		slots:  make(chan struct{}, slots),
		logger: logger,
	}, nil
}

// Acquire blocks until a slot is free or ctx is done. A slot that comes
// free for an already-cancelled request is returned immediately, so a
// late-resolving acquire can never leak the device.
func (m *DeviceManager) Acquire(ctx context.Context, opts Options) (*Lease, error) {
	select {
	case m.slots <- struct{}{}:
		if ctx.Err() != nil {
			<-m.slots
			return nil, ctx.Err()
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	lease := &Lease{
		ID:          uuid.New().String(),
		FacingFront: opts.FacingFront,
		manager:     m,
	}

	m.logger.Debug("capture lease acquired",
		zap.String("lease_id", lease.ID),
		zap.Bool("facing_front", opts.FacingFront),
	)

	return lease, nil
}

// InUse returns how many slots are currently held
func (m *DeviceManager) InUse() int {
	return len(m.slots)
}
