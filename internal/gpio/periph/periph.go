// Package periph drives GPIO lines through the periph.io host drivers.
package periph

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/clambin/ledblink/internal/gpio"
	log "github.com/sirupsen/logrus"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var _ gpio.Provider = &Provider{}

type Provider struct {
	claims   gpio.Claims
	initOnce sync.Once
	initErr  error
	lookup   func(string) pgpio.PinIO
}

func New() *Provider {
	return &Provider{lookup: gpioreg.ByName}
}

func (p *Provider) Name() string {
	return "periph"
}

func (p *Provider) Open(pin int) (gpio.Line, error) {
	if pin < 0 {
		return nil, fmt.Errorf("%w: %d", gpio.ErrInvalidPin, pin)
	}
	p.initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			p.initErr = fmt.Errorf("periph: host init: %w", err)
		}
	})
	if p.initErr != nil {
		return nil, p.initErr
	}

	pinIO := p.lookup(strconv.Itoa(pin))
	if pinIO == nil {
		return nil, fmt.Errorf("%w: %d: not registered", gpio.ErrInvalidPin, pin)
	}
	if err := p.claims.Claim(pin); err != nil {
		return nil, err
	}
	// keep the current level while switching to output
	if err := pinIO.Out(pinIO.Read()); err != nil {
		p.claims.Release(pin)
		return nil, fmt.Errorf("%s: %w", pinIO, err)
	}
	log.WithField("pin", pinIO.Name()).Debug("periph: pin set to output")
	return &Line{number: pin, pin: pinIO, provider: p}, nil
}

type Line struct {
	number   int
	pin      pgpio.PinIO
	provider *Provider
	lock     sync.Mutex
	closed   bool
}

func (l *Line) Write(level gpio.Level) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return fmt.Errorf("%s: %w", l.pin, gpio.ErrClosed)
	}
	if level == gpio.High {
		return l.pin.Out(pgpio.High)
	}
	return l.pin.Out(pgpio.Low)
}

// Close halts the pin and reverts it to an input
func (l *Line) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	defer l.provider.claims.Release(l.number)
	return errors.Join(l.pin.Halt(), l.pin.In(pgpio.PullNoChange, pgpio.NoEdge))
}
