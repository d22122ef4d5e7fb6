// Package testutils builds fake sysfs trees for driver tests.
package testutils

import (
	"os"
	"path/filepath"
	"strconv"
)

// InitLED creates an LED class directory (<root>/<name>) with the given trigger list and a max_brightness of 255
func InitLED(root string, name string, trigger string) (string, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "trigger"), []byte(trigger), 0644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "max_brightness"), []byte("255"), 0644); err != nil {
		return "", err
	}
	return dir, nil
}

// InitGPIO creates an exported sysfs GPIO directory (<root>/gpio<pin>), configured as an input
func InitGPIO(root string, pin int) (string, error) {
	dir := filepath.Join(root, "gpio"+strconv.Itoa(pin))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "direction"), []byte("in"), 0644); err != nil {
		return "", err
	}
	return dir, nil
}
