package blinker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clambin/ledblink/internal/configuration"
	"github.com/clambin/ledblink/internal/gpio"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrAcquire is returned when the line could not be opened. No level was written.
	ErrAcquire = errors.New("failed to acquire line")
	// ErrWrite is returned when a write fails. The line has been released.
	ErrWrite = errors.New("failed to write line")
)

// Blinker switches an LED on and off a fixed number of times
type Blinker struct {
	provider gpio.Provider
	cfg      configuration.BlinkConfiguration
	logger   *log.Entry
	sleep    func(context.Context, time.Duration) error
}

func New(provider gpio.Provider, cfg configuration.BlinkConfiguration, logger *log.Entry) *Blinker {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Blinker{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		sleep:    sleep,
	}
}

// Run acquires the line, drives it to the off level and then blinks the LED Count times.
// Once acquired, the line is always released before Run returns.
func (b *Blinker) Run(ctx context.Context) (err error) {
	if err = b.cfg.Validate(); err != nil {
		return err
	}

	b.logger.WithFields(log.Fields{
		"pin":     b.cfg.Pin,
		"onValue": b.cfg.OnValue,
		"count":   b.cfg.Count,
		"timeOn":  b.cfg.TimeOn,
		"timeOff": b.cfg.TimeOff,
		"driver":  b.provider.Name(),
	}).Info("blinking led")

	line, err := b.provider.Open(b.cfg.Pin)
	if err != nil {
		return fmt.Errorf("%w %d: %w", ErrAcquire, b.cfg.Pin, err)
	}
	defer func() {
		if closeErr := line.Close(); closeErr != nil {
			b.logger.WithError(closeErr).Warning("failed to release line")
		}
	}()

	off := b.cfg.OffValue()
	if err = b.write(line, off); err != nil {
		return err
	}

	for index := 0; index < b.cfg.Count; index++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		b.logger.WithField("index", index).Infof("turn the LED on and wait %s", b.cfg.TimeOn)
		if err = b.write(line, b.cfg.OnValue); err != nil {
			return err
		}
		if err = b.sleep(ctx, b.cfg.TimeOn); err != nil {
			return err
		}

		b.logger.WithField("index", index).Infof("turn the LED off and wait %s", b.cfg.TimeOff)
		if err = b.write(line, off); err != nil {
			return err
		}
		if err = b.sleep(ctx, b.cfg.TimeOff); err != nil {
			return err
		}
	}
	return nil
}

func (b *Blinker) write(line gpio.Line, level gpio.Level) error {
	if err := line.Write(level); err != nil {
		return fmt.Errorf("%w %d (%s): %w", ErrWrite, b.cfg.Pin, level, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
