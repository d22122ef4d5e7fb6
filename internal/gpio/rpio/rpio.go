// Package rpio drives Raspberry Pi GPIO lines through memory mapped registers (/dev/gpiomem).
package rpio

import (
	"fmt"
	"sync"

	"github.com/clambin/ledblink/internal/gpio"
	log "github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

var _ gpio.Provider = &Provider{}

// maxPin is the highest BCM GPIO number of the BCM283x
const maxPin = 53

// Provider uses BCM pin numbering. The GPIO registers are mapped while at least one line is open.
type Provider struct {
	claims gpio.Claims
	lock   sync.Mutex
	mapped int
}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "rpio"
}

func (p *Provider) Open(pin int) (gpio.Line, error) {
	if pin < 0 || pin > maxPin {
		return nil, fmt.Errorf("%w: %d (valid range 0-%d)", gpio.ErrInvalidPin, pin, maxPin)
	}
	if err := p.claims.Claim(pin); err != nil {
		return nil, err
	}
	if err := p.mmap(); err != nil {
		p.claims.Release(pin)
		return nil, fmt.Errorf("rpio: %w", err)
	}
	rpin := rpio.Pin(pin)
	rpin.Output()
	log.WithField("pin", pin).Debug("rpio: pin set to output")
	return &Line{pin: rpin, provider: p}, nil
}

func (p *Provider) mmap() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.mapped == 0 {
		if err := rpio.Open(); err != nil {
			return err
		}
	}
	p.mapped++
	return nil
}

func (p *Provider) munmap() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.mapped--; p.mapped > 0 {
		return nil
	}
	return rpio.Close()
}

type Line struct {
	pin      rpio.Pin
	provider *Provider
	lock     sync.Mutex
	closed   bool
}

func (l *Line) Write(level gpio.Level) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return fmt.Errorf("rpio %d: %w", l.pin, gpio.ErrClosed)
	}
	state := rpio.Low
	if level == gpio.High {
		state = rpio.High
	}
	l.pin.Write(state)
	return nil
}

// Close reverts the pin to an input
func (l *Line) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.pin.Input()
	l.provider.claims.Release(int(l.pin))
	return l.provider.munmap()
}
