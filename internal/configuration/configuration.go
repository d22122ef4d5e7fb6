package configuration

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/clambin/ledblink/internal/gpio"
	"gopkg.in/alecthomas/kingpin.v2"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

const (
	DriverGPIOCDev = "gpiocdev"
	DriverSysFS    = "sysfs"
	DriverLED      = "led"
	DriverRPIO     = "rpio"
	DriverPeriph   = "periph"
	DriverSim      = "sim"
)

// Drivers lists all supported GPIO drivers
var Drivers = []string{DriverGPIOCDev, DriverSysFS, DriverLED, DriverRPIO, DriverPeriph, DriverSim}

type Configuration struct {
	Debug          bool
	PrometheusAddr string
	Driver         DriverConfiguration
	Blink          BlinkConfiguration
}

type DriverConfiguration struct {
	Name      string
	Chip      string
	SysFSPath string
	LEDPath   string
	SimLines  int
}

type BlinkConfiguration struct {
	Pin     int
	Count   int
	TimeOn  time.Duration
	TimeOff time.Duration
	// OnValue is the level that switches the LED on. The zero value is gpio.Low, i.e. an active-low LED.
	OnValue gpio.Level
}

// OffValue returns the level that switches the LED off: always the complement of OnValue
func (c BlinkConfiguration) OffValue() gpio.Level {
	return c.OnValue.Invert()
}

func (c BlinkConfiguration) Validate() error {
	var errs []error
	if c.Pin < 0 {
		errs = append(errs, fmt.Errorf("led pin must not be negative: %d", c.Pin))
	}
	if c.Count < 0 {
		errs = append(errs, fmt.Errorf("count must not be negative: %d", c.Count))
	}
	if c.TimeOn < 0 {
		errs = append(errs, fmt.Errorf("time on must not be negative: %s", c.TimeOn))
	}
	if c.TimeOff < 0 {
		errs = append(errs, fmt.Errorf("time off must not be negative: %s", c.TimeOff))
	}
	if c.OnValue != gpio.High && c.OnValue != gpio.Low {
		errs = append(errs, fmt.Errorf("invalid on value: %d", c.OnValue))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, errors.Join(errs...))
	}
	return nil
}

func (c Configuration) Validate() error {
	if !slices.Contains(Drivers, c.Driver.Name) {
		return fmt.Errorf("%w: unsupported driver %q", ErrInvalidConfiguration, c.Driver.Name)
	}
	if c.Driver.Name == DriverSim && c.Driver.SimLines <= 0 {
		return fmt.Errorf("%w: sim lines must be positive: %d", ErrInvalidConfiguration, c.Driver.SimLines)
	}
	return c.Blink.Validate()
}

// GetConfiguration parses the command line arguments. The returned configuration has been validated.
func GetConfiguration(app string, version string, args []string) (Configuration, error) {
	var (
		cfg             Configuration
		timeOn, timeOff int
	)

	a := kingpin.New(filepath.Base(app), "Blinks an LED connected to a GPIO pin.")
	a.Version(version)
	a.HelpFlag.Short('h')
	a.VersionFlag.Short('v')
	a.Flag("debug", "Log debug messages").Short('d').Default("false").BoolVar(&cfg.Debug)
	a.Flag("led-pin", "The GPIO pin the LED is connected to").Short('l').Required().IntVar(&cfg.Blink.Pin)
	a.Flag("count", "The number of times to blink the LED").Short('c').Default("5").IntVar(&cfg.Blink.Count)
	a.Flag("time-on", "The number of milliseconds to keep the LED on for each blink").Default("200").IntVar(&timeOn)
	a.Flag("time-off", "The number of milliseconds to keep the LED off for each blink").Default("200").IntVar(&timeOff)
	a.Flag("on-value", "The value that turns the LED on: { High | Low }").Default("High").HintOptions("High", "Low").SetValue(&cfg.Blink.OnValue)
	a.Flag("driver", "GPIO driver").Default(DriverGPIOCDev).EnumVar(&cfg.Driver.Name, Drivers...)
	a.Flag("chip", "GPIO character device (gpiocdev driver)").Default("gpiochip0").StringVar(&cfg.Driver.Chip)
	a.Flag("sysfs-path", "sysfs GPIO directory (sysfs driver)").Default("/sys/class/gpio").StringVar(&cfg.Driver.SysFSPath)
	a.Flag("led-path", "sysfs LED class directory (led driver)").Default("/sys/class/leds").StringVar(&cfg.Driver.LEDPath)
	a.Flag("sim-lines", "Number of simulated lines (sim driver)").Default("32").IntVar(&cfg.Driver.SimLines)
	a.Flag("prometheus", "Prometheus metrics listener address (default: no metrics)").Default("").StringVar(&cfg.PrometheusAddr)

	if _, err := a.Parse(args); err != nil {
		return cfg, err
	}
	cfg.Blink.TimeOn = time.Duration(timeOn) * time.Millisecond
	cfg.Blink.TimeOff = time.Duration(timeOff) * time.Millisecond
	return cfg, cfg.Validate()
}
