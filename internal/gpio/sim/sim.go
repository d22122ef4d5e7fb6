// Package sim provides simulated GPIO lines. Every write is recorded, so the driver can be used for dry runs and tests.
package sim

import (
	"fmt"
	"sync"

	"github.com/clambin/ledblink/internal/gpio"
	log "github.com/sirupsen/logrus"
)

var _ gpio.Provider = &Provider{}

// Provider simulates a chip with a fixed number of lines
type Provider struct {
	lines  int
	claims gpio.Claims
	lock   sync.Mutex
	opened map[int]*Line
}

// New returns a Provider with the given number of lines
func New(lines int) *Provider {
	return &Provider{
		lines:  lines,
		opened: make(map[int]*Line),
	}
}

func (p *Provider) Name() string {
	return "sim"
}

func (p *Provider) Open(pin int) (gpio.Line, error) {
	if pin < 0 || pin >= p.lines {
		return nil, fmt.Errorf("%w: %d (chip has %d lines)", gpio.ErrInvalidPin, pin, p.lines)
	}
	if err := p.claims.Claim(pin); err != nil {
		return nil, err
	}
	l := &Line{pin: pin, provider: p}
	p.lock.Lock()
	p.opened[pin] = l
	p.lock.Unlock()
	log.WithField("pin", pin).Debug("sim: line opened")
	return l, nil
}

// Line returns the most recently opened line for pin, or nil if the pin was never opened
func (p *Provider) Line(pin int) *Line {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.opened[pin]
}

// Line is a simulated output line
type Line struct {
	pin      int
	provider *Provider
	lock     sync.Mutex
	writes   []gpio.Level
	closes   int
}

func (l *Line) Write(level gpio.Level) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closes > 0 {
		return fmt.Errorf("pin %d: %w", l.pin, gpio.ErrClosed)
	}
	l.writes = append(l.writes, level)
	log.WithFields(log.Fields{"pin": l.pin, "level": level}).Debug("sim: write")
	return nil
}

func (l *Line) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.closes++
	if l.closes == 1 {
		l.provider.claims.Release(l.pin)
		log.WithField("pin", l.pin).Debug("sim: line closed")
	}
	return nil
}

// Writes returns all levels written to the line, in order
func (l *Line) Writes() []gpio.Level {
	l.lock.Lock()
	defer l.lock.Unlock()
	writes := make([]gpio.Level, len(l.writes))
	copy(writes, l.writes)
	return writes
}

// Closes returns the number of times Close was called
func (l *Line) Closes() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.closes
}

// Level returns the last level written to the line. A line that was never written reads Low.
func (l *Line) Level() gpio.Level {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.writes) == 0 {
		return gpio.Low
	}
	return l.writes[len(l.writes)-1]
}
