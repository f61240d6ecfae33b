// Package servo layers per-channel convenience on top of the piservod
// protocol client.
package servo

import (
	"github.com/rbright/piservo/internal/piservod"
)

// Default pulse width bounds in microseconds, matching typical hobby servos.
const (
	DefaultMinPulse = 1000
	DefaultMaxPulse = 2000
)

// Servo binds one daemon channel to a shared protocol client. The client is
// injected at construction; many servos may share one connection.
//
// The min/max fields are a read-your-own-writes cache for CenterPulse. They
// can drift from daemon truth if another handle changes the range on the
// same channel; Range always asks the daemon.
type Servo struct {
	client   *piservod.Client
	channel  int
	minPulse int
	maxPulse int
}

// New configures a servo channel on the daemon: SETUP with the given GPIO
// pin, then SET RANGE. Zero min and max select the defaults. If the range
// command fails after a successful setup, the daemon-side channel stays
// configured with its default range; no rollback is attempted.
func New(client *piservod.Client, channel, gpio, minPulse, maxPulse int) (*Servo, error) {
	if minPulse == 0 && maxPulse == 0 {
		minPulse = DefaultMinPulse
		maxPulse = DefaultMaxPulse
	}

	if err := client.Setup(channel, gpio); err != nil {
		return nil, err
	}
	if err := client.SetRange(channel, minPulse, maxPulse); err != nil {
		return nil, err
	}

	return &Servo{
		client:   client,
		channel:  channel,
		minPulse: minPulse,
		maxPulse: maxPulse,
	}, nil
}

// Channel returns the daemon channel number this servo drives.
func (s *Servo) Channel() int { return s.channel }

// Enable turns on PWM output.
func (s *Servo) Enable() error { return s.client.Enable(s.channel) }

// Disable turns off PWM output.
func (s *Servo) Disable() error { return s.client.Disable(s.channel) }

// SetPulse sets the pulse width in microseconds.
func (s *Servo) SetPulse(pulse int) error { return s.client.SetPulse(s.channel, pulse) }

// Pulse returns the current pulse width from the daemon.
func (s *Servo) Pulse() (int, error) { return s.client.Pulse(s.channel) }

// SetRange sets the pulse width bounds and refreshes the local cache. The
// cache is updated only when the daemon accepts the new range.
func (s *Servo) SetRange(minPulse, maxPulse int) error {
	if err := s.client.SetRange(s.channel, minPulse, maxPulse); err != nil {
		return err
	}
	s.minPulse = minPulse
	s.maxPulse = maxPulse
	return nil
}

// Range returns the configured bounds from the daemon, not the local cache.
func (s *Servo) Range() (minPulse, maxPulse int, err error) {
	return s.client.Range(s.channel)
}

// State returns the daemon-side channel state.
func (s *Servo) State() (piservod.State, error) { return s.client.State(s.channel) }

// Enabled reports whether PWM output is currently on, per the daemon.
func (s *Servo) Enabled() (bool, error) {
	state, err := s.client.State(s.channel)
	if err != nil {
		return false, err
	}
	return state.Enabled, nil
}

// CenterPulse returns the midpoint of the cached range without a round trip.
func (s *Servo) CenterPulse() int {
	return (s.minPulse + s.maxPulse) / 2
}

// Center moves the servo to the midpoint of the cached range.
func (s *Servo) Center() error {
	return s.SetPulse(s.CenterPulse())
}
