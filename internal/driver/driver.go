// Package driver creates the gpio.Provider selected on the command line.
package driver

import (
	"fmt"

	"github.com/clambin/ledblink/internal/configuration"
	"github.com/clambin/ledblink/internal/gpio"
	"github.com/clambin/ledblink/internal/gpio/ledclass"
	"github.com/clambin/ledblink/internal/gpio/periph"
	"github.com/clambin/ledblink/internal/gpio/rpio"
	"github.com/clambin/ledblink/internal/gpio/sim"
	"github.com/clambin/ledblink/internal/gpio/sysfs"
)

func New(cfg configuration.DriverConfiguration) (gpio.Provider, error) {
	switch cfg.Name {
	case configuration.DriverGPIOCDev:
		return newCharacterDevice(cfg.Chip)
	case configuration.DriverSysFS:
		return sysfs.New(cfg.SysFSPath), nil
	case configuration.DriverLED:
		return ledclass.New(cfg.LEDPath), nil
	case configuration.DriverRPIO:
		return rpio.New(), nil
	case configuration.DriverPeriph:
		return periph.New(), nil
	case configuration.DriverSim:
		return sim.New(cfg.SimLines), nil
	}
	return nil, fmt.Errorf("%w: unsupported driver %q", configuration.ErrInvalidConfiguration, cfg.Name)
}
