//go:build !linux

package driver

import (
	"errors"

	"github.com/clambin/ledblink/internal/gpio"
)

func newCharacterDevice(_ string) (gpio.Provider, error) {
	return nil, errors.New("gpiocdev driver requires linux")
}
