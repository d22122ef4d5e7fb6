// Package ledclass drives LEDs exposed through the Linux LED class. Pin N maps to the directory led<N>.
package ledclass

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/clambin/ledblink/internal/gpio"
	"github.com/clambin/ledblink/pkg/ledberry"
	log "github.com/sirupsen/logrus"
)

var _ gpio.Provider = &Provider{}

type Provider struct {
	path   string
	claims gpio.Claims
}

// New returns a Provider for LEDs under path (typically /sys/class/leds)
func New(path string) *Provider {
	return &Provider{path: path}
}

func (p *Provider) Name() string {
	return "led"
}

func (p *Provider) Open(pin int) (gpio.Line, error) {
	if pin < 0 {
		return nil, fmt.Errorf("%w: %d", gpio.ErrInvalidPin, pin)
	}
	ledPath := filepath.Join(p.path, fmt.Sprintf("led%d", pin))
	led, err := ledberry.New(ledPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %d: %w", gpio.ErrInvalidPin, pin, err)
		}
		return nil, fmt.Errorf("led%d: %w", pin, err)
	}
	if err = p.claims.Claim(pin); err != nil {
		return nil, err
	}

	// an active trigger overrides the brightness we write
	trigger, err := led.GetActiveMode()
	if err == nil && trigger != "" && trigger != "none" {
		err = led.SetActiveMode("none")
	}
	if err != nil {
		p.claims.Release(pin)
		return nil, fmt.Errorf("led%d: failed to disable trigger: %w", pin, err)
	}

	log.WithFields(log.Fields{"path": ledPath, "trigger": trigger}).Debug("led opened")
	return &Line{pin: pin, led: led, trigger: trigger, provider: p}, nil
}

type Line struct {
	pin      int
	led      *ledberry.LED
	trigger  string
	provider *Provider
	lock     sync.Mutex
	closed   bool
}

func (l *Line) Write(level gpio.Level) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return fmt.Errorf("led%d: %w", l.pin, gpio.ErrClosed)
	}
	return l.led.Set(level == gpio.High)
}

// Close restores the trigger that was active when the LED was opened
func (l *Line) Close() (err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	defer l.provider.claims.Release(l.pin)
	if l.trigger != "" && l.trigger != "none" {
		err = l.led.SetActiveMode(l.trigger)
	}
	log.WithFields(log.Fields{"path": l.led.Path(), "err": err}).Debug("led closed")
	return err
}
