// Package sysfs drives GPIO lines through the legacy /sys/class/gpio interface.
package sysfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/clambin/ledblink/internal/gpio"
	log "github.com/sirupsen/logrus"
)

var _ gpio.Provider = &Provider{}

const defaultExportTimeout = 500 * time.Millisecond

type Provider struct {
	path          string
	claims        gpio.Claims
	exportTimeout time.Duration
}

// New returns a Provider for the sysfs GPIO root at path (typically /sys/class/gpio)
func New(path string) *Provider {
	return &Provider{path: path, exportTimeout: defaultExportTimeout}
}

func (p *Provider) Name() string {
	return "sysfs"
}

func (p *Provider) Open(pin int) (gpio.Line, error) {
	if pin < 0 {
		return nil, fmt.Errorf("%w: %d", gpio.ErrInvalidPin, pin)
	}
	if err := p.claims.Claim(pin); err != nil {
		return nil, err
	}
	l := Line{
		pin:      pin,
		path:     filepath.Join(p.path, "gpio"+strconv.Itoa(pin)),
		provider: p,
	}
	err := l.export()
	if err == nil {
		err = os.WriteFile(filepath.Join(l.path, "direction"), []byte("out"), 0644)
	}
	if err != nil {
		l.release()
		return nil, fmt.Errorf("gpio%d: %w", pin, err)
	}
	log.WithFields(log.Fields{"path": l.path, "exported": l.exported}).Debug("gpio opened")
	return &l, nil
}

type Line struct {
	pin      int
	path     string
	provider *Provider
	exported bool
	lock     sync.Mutex
	closed   bool
}

func (l *Line) export() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	}
	if err := os.WriteFile(filepath.Join(l.provider.path, "export"), []byte(strconv.Itoa(l.pin)), 0644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	l.exported = true

	// the kernel creates the gpio directory asynchronously
	deadline := time.Now().Add(l.provider.exportTimeout)
	for {
		if _, err := os.Stat(l.path); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("export: %w (%s not created)", gpio.ErrInvalidPin, l.path)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (l *Line) Write(level gpio.Level) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return fmt.Errorf("gpio%d: %w", l.pin, gpio.ErrClosed)
	}
	return os.WriteFile(filepath.Join(l.path, "value"), []byte(strconv.Itoa(level.Value())), 0644)
}

// Close reverts the line to an input and unexports it if Open exported it
func (l *Line) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	err := os.WriteFile(filepath.Join(l.path, "direction"), []byte("in"), 0644)
	err = errors.Join(err, l.release())
	log.WithFields(log.Fields{"path": l.path, "err": err}).Debug("gpio closed")
	return err
}

func (l *Line) release() error {
	defer l.provider.claims.Release(l.pin)
	if !l.exported {
		return nil
	}
	if err := os.WriteFile(filepath.Join(l.provider.path, "unexport"), []byte(strconv.Itoa(l.pin)), 0644); err != nil {
		return fmt.Errorf("unexport: %w", err)
	}
	return nil
}
