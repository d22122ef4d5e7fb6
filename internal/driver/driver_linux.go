package driver

import (
	"github.com/clambin/ledblink/internal/gpio"
	"github.com/clambin/ledblink/internal/gpio/cdev"
)

func newCharacterDevice(chip string) (gpio.Provider, error) {
	return cdev.New(chip), nil
}
