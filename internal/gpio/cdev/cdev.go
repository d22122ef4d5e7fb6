//go:build linux

// Package cdev drives GPIO lines through the Linux GPIO character device (/dev/gpiochipN).
package cdev

import (
	"errors"
	"fmt"
	"sync"
	"syscall"

	"github.com/clambin/ledblink/internal/gpio"
	log "github.com/sirupsen/logrus"
	"github.com/warthog618/go-gpiocdev"
)

var _ gpio.Provider = &Provider{}

const consumer = "ledblink"

type Provider struct {
	chip   string
	claims gpio.Claims
}

// New returns a Provider for the named chip (e.g. "gpiochip0")
func New(chip string) *Provider {
	return &Provider{chip: chip}
}

func (p *Provider) Name() string {
	return "gpiocdev"
}

func (p *Provider) Open(pin int) (gpio.Line, error) {
	if pin < 0 {
		return nil, fmt.Errorf("%w: %d", gpio.ErrInvalidPin, pin)
	}
	if err := p.claims.Claim(pin); err != nil {
		return nil, err
	}
	l, err := gpiocdev.RequestLine(p.chip, pin, gpiocdev.AsOutput(), gpiocdev.WithConsumer(consumer))
	if err != nil {
		p.claims.Release(pin)
		switch {
		case errors.Is(err, gpiocdev.ErrInvalidOffset):
			err = fmt.Errorf("%w: %s:%d: %w", gpio.ErrInvalidPin, p.chip, pin, err)
		case errors.Is(err, syscall.EBUSY):
			err = fmt.Errorf("%w: %s:%d: %w", gpio.ErrBusy, p.chip, pin, err)
		default:
			err = fmt.Errorf("%s:%d: %w", p.chip, pin, err)
		}
		return nil, err
	}
	log.WithFields(log.Fields{"chip": p.chip, "offset": pin}).Debug("line requested")
	return &Line{pin: pin, line: l, provider: p}, nil
}

type Line struct {
	pin      int
	line     *gpiocdev.Line
	provider *Provider
	lock     sync.Mutex
	closed   bool
}

func (l *Line) Write(level gpio.Level) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return fmt.Errorf("%s:%d: %w", l.provider.chip, l.pin, gpio.ErrClosed)
	}
	return l.line.SetValue(level.Value())
}

// Close reverts the line to an input and releases it
func (l *Line) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	defer l.provider.claims.Release(l.pin)
	err := errors.Join(l.line.Reconfigure(gpiocdev.AsInput), l.line.Close())
	log.WithFields(log.Fields{"chip": l.provider.chip, "offset": l.pin, "err": err}).Debug("line released")
	return err
}
