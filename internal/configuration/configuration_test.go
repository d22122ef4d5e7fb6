package configuration

import (
	"testing"
	"time"

	"github.com/clambin/ledblink/internal/gpio"
	"github.com/stretchr/testify/assert"
)

func TestGetConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Configuration
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name: "defaults",
			args: []string{"--led-pin", "17"},
			want: Configuration{
				Driver: DriverConfiguration{
					Name:      DriverGPIOCDev,
					Chip:      "gpiochip0",
					SysFSPath: "/sys/class/gpio",
					LEDPath:   "/sys/class/leds",
					SimLines:  32,
				},
				Blink: BlinkConfiguration{
					Pin:     17,
					Count:   5,
					TimeOn:  200 * time.Millisecond,
					TimeOff: 200 * time.Millisecond,
					OnValue: gpio.High,
				},
			},
			wantErr: assert.NoError,
		},
		{
			name: "all options",
			args: []string{
				"-l", "4", "-c", "3", "--time-on", "50", "--time-off=0", "--on-value", "low",
				"--driver", "sim", "--sim-lines", "8", "--prometheus", ":9090", "-d",
			},
			want: Configuration{
				Debug:          true,
				PrometheusAddr: ":9090",
				Driver: DriverConfiguration{
					Name:      DriverSim,
					Chip:      "gpiochip0",
					SysFSPath: "/sys/class/gpio",
					LEDPath:   "/sys/class/leds",
					SimLines:  8,
				},
				Blink: BlinkConfiguration{
					Pin:     4,
					Count:   3,
					TimeOn:  50 * time.Millisecond,
					OnValue: gpio.Low,
				},
			},
			wantErr: assert.NoError,
		},
		{
			name:    "missing pin",
			args:    []string{"--count", "3"},
			wantErr: assert.Error,
		},
		{
			name:    "invalid on value",
			args:    []string{"-l", "4", "--on-value", "bright"},
			wantErr: assert.Error,
		},
		{
			name:    "invalid driver",
			args:    []string{"-l", "4", "--driver", "usb"},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetConfiguration("ledblink", "dev", tt.args)
			tt.wantErr(t, err)
			if err == nil {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGetConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "negative pin", args: []string{"--led-pin=-1"}},
		{name: "negative count", args: []string{"-l", "4", "--count=-1"}},
		{name: "negative time on", args: []string{"-l", "4", "--time-on=-10"}},
		{name: "negative time off", args: []string{"-l", "4", "--time-off=-10"}},
		{name: "no sim lines", args: []string{"-l", "4", "--driver", "sim", "--sim-lines", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetConfiguration("ledblink", "dev", tt.args)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestBlinkConfiguration_OffValue(t *testing.T) {
	assert.Equal(t, gpio.Low, BlinkConfiguration{OnValue: gpio.High}.OffValue())
	assert.Equal(t, gpio.High, BlinkConfiguration{OnValue: gpio.Low}.OffValue())
}

func TestBlinkConfiguration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BlinkConfiguration
		wantErr assert.ErrorAssertionFunc
	}{
		{name: "zero", cfg: BlinkConfiguration{}, wantErr: assert.NoError},
		{name: "valid", cfg: BlinkConfiguration{Pin: 4, Count: 5, TimeOn: time.Second, TimeOff: time.Second, OnValue: gpio.Low}, wantErr: assert.NoError},
		{name: "negative count", cfg: BlinkConfiguration{Count: -1}, wantErr: assert.Error},
		{name: "bad level", cfg: BlinkConfiguration{OnValue: gpio.Level(2)}, wantErr: assert.Error},
		{name: "multiple", cfg: BlinkConfiguration{Pin: -1, TimeOn: -time.Second, TimeOff: -time.Second}, wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.wantErr(t, tt.cfg.Validate())
		})
	}
}
