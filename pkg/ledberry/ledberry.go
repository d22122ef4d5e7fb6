// Package ledberry controls LEDs exposed through the Linux LED class (/sys/class/leds/<name>).
package ledberry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

type LED struct {
	path           string
	brightnessPath string
	triggerPath    string
	maxBrightness  int
}

// New returns an LED for the sysfs directory at path. The directory must exist and contain a readable max_brightness file.
func New(path string) (*LED, error) {
	if info, err := os.Stat(path); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", path)
	}
	maxBrightness, err := readInt(filepath.Join(path, "max_brightness"))
	if err != nil {
		return nil, fmt.Errorf("max_brightness: %w", err)
	}
	return &LED{
		path:           path,
		brightnessPath: filepath.Join(path, "brightness"),
		triggerPath:    filepath.Join(path, "trigger"),
		maxBrightness:  maxBrightness,
	}, nil
}

func (l *LED) Path() string {
	return l.path
}

func (l *LED) MaxBrightness() int {
	return l.maxBrightness
}

func (l *LED) GetBrightness() (int, error) {
	return readInt(l.brightnessPath)
}

func (l *LED) SetBrightness(value int) error {
	if value < 0 || value > l.maxBrightness {
		return fmt.Errorf("brightness %d out of range [0, %d]", value, l.maxBrightness)
	}
	return os.WriteFile(l.brightnessPath, []byte(strconv.Itoa(value)), 0644)
}

// Set switches the LED fully on or off
func (l *LED) Set(on bool) error {
	if on {
		return l.SetBrightness(l.maxBrightness)
	}
	return l.SetBrightness(0)
}

// GetModes returns all triggers supported by the LED
func (l *LED) GetModes() ([]string, error) {
	content, err := os.ReadFile(l.triggerPath)
	if err != nil {
		return nil, err
	}
	modes := strings.Fields(string(content))
	for i := range modes {
		modes[i] = strings.TrimSuffix(strings.TrimPrefix(modes[i], "["), "]")
	}
	return modes, nil
}

var activeModeRegExp = regexp.MustCompile(`\[(.+?)]`)

// GetActiveMode returns the active trigger, or an empty string if none is marked active
func (l *LED) GetActiveMode() (string, error) {
	content, err := os.ReadFile(l.triggerPath)
	if err != nil {
		return "", err
	}
	if matches := activeModeRegExp.FindSubmatch(content); matches != nil {
		return string(matches[1]), nil
	}
	return "", nil
}

// SetActiveMode sets the LED's trigger. mode must be one of the modes reported by GetModes.
func (l *LED) SetActiveMode(mode string) error {
	modes, err := l.GetModes()
	if err != nil {
		return err
	}
	if !slices.Contains(modes, mode) {
		return fmt.Errorf("invalid mode: %q", mode)
	}
	return os.WriteFile(l.triggerPath, []byte(mode), 0644)
}

func readInt(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}
