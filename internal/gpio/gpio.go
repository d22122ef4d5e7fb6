// Package gpio defines the contract between the blinker and the GPIO drivers.
package gpio

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrInvalidPin = errors.New("invalid pin")
	ErrBusy       = errors.New("pin already in use")
	ErrClosed     = errors.New("line closed")
)

//go:generate mockery --name Provider
//go:generate mockery --name Line

// Provider acquires output lines
type Provider interface {
	// Name identifies the driver
	Name() string
	// Open acquires pin as a digital output. The caller owns the returned Line until it calls Close.
	Open(pin int) (Line, error)
}

// Line is an acquired output line
type Line interface {
	// Write drives the line to level
	Write(level Level) error
	// Close releases the line. Calling Close more than once is a no-op.
	Close() error
}

// Level is the logical level of a line
type Level int

const (
	Low Level = iota
	High
)

// Invert returns the logical complement of the level
func (l Level) Invert() Level {
	if l == High {
		return Low
	}
	return High
}

// Value returns the level as 0 or 1
func (l Level) Value() int {
	if l == High {
		return 1
	}
	return 0
}

func (l Level) String() string {
	if l == High {
		return "High"
	}
	return "Low"
}

// Set parses a level. It implements kingpin.Value, so a Level can be used as a command line flag.
func (l *Level) Set(s string) error {
	level, err := ParseLevel(s)
	if err == nil {
		*l = level
	}
	return err
}

// ParseLevel converts "High"/"Low" (case-insensitive) or "1"/"0" to a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "1":
		return High, nil
	case "low", "0":
		return Low, nil
	}
	return Low, fmt.Errorf("invalid level %q: must be High or Low", s)
}

// Claims tracks which pins of a provider are currently acquired
type Claims struct {
	lock sync.Mutex
	pins map[int]struct{}
}

// Claim marks pin as acquired. It returns ErrBusy if the pin is already claimed.
func (c *Claims) Claim(pin int) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.pins == nil {
		c.pins = make(map[int]struct{})
	}
	if _, ok := c.pins[pin]; ok {
		return fmt.Errorf("%w: %d", ErrBusy, pin)
	}
	c.pins[pin] = struct{}{}
	return nil
}

// Release frees a claimed pin. It reports whether the pin was claimed.
func (c *Claims) Release(pin int) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, ok := c.pins[pin]
	delete(c.pins, pin)
	return ok
}

// Count returns the number of claimed pins
func (c *Claims) Count() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.pins)
}
