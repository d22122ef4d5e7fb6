package blinker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clambin/ledblink/internal/configuration"
	"github.com/clambin/ledblink/internal/gpio"
	"github.com/clambin/ledblink/internal/gpio/mocks"
	"github.com/clambin/ledblink/internal/gpio/sim"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	sleeps []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.sleeps = append(r.sleeps, d)
	return nil
}

func (r *sleepRecorder) total() (total time.Duration) {
	for _, d := range r.sleeps {
		total += d
	}
	return total
}

func newTestBlinker(p gpio.Provider, cfg configuration.BlinkConfiguration) (*Blinker, *sleepRecorder, *test.Hook) {
	logger, hook := test.NewNullLogger()
	b := New(p, cfg, log.NewEntry(logger))
	var r sleepRecorder
	b.sleep = r.sleep
	return b, &r, hook
}

func TestBlinker_Run(t *testing.T) {
	tests := []struct {
		name       string
		cfg        configuration.BlinkConfiguration
		wantWrites []gpio.Level
		wantSleeps []time.Duration
	}{
		{
			name:       "three cycles",
			cfg:        configuration.BlinkConfiguration{Pin: 4, Count: 3, OnValue: gpio.High},
			wantWrites: []gpio.Level{gpio.Low, gpio.High, gpio.Low, gpio.High, gpio.Low, gpio.High, gpio.Low},
			wantSleeps: []time.Duration{0, 0, 0, 0, 0, 0},
		},
		{
			name:       "active low",
			cfg:        configuration.BlinkConfiguration{Pin: 4, Count: 2, TimeOn: 10 * time.Millisecond, TimeOff: 30 * time.Millisecond, OnValue: gpio.Low},
			wantWrites: []gpio.Level{gpio.High, gpio.Low, gpio.High, gpio.Low, gpio.High},
			wantSleeps: []time.Duration{10 * time.Millisecond, 30 * time.Millisecond, 10 * time.Millisecond, 30 * time.Millisecond},
		},
		{
			name:       "no cycles",
			cfg:        configuration.BlinkConfiguration{Pin: 0, Count: 0, TimeOn: time.Second, TimeOff: time.Second, OnValue: gpio.High},
			wantWrites: []gpio.Level{gpio.Low},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sim.New(8)
			b, r, hook := newTestBlinker(p, tt.cfg)

			require.NoError(t, b.Run(context.Background()))

			line := p.Line(tt.cfg.Pin)
			require.NotNil(t, line)
			assert.Equal(t, tt.wantWrites, line.Writes())
			assert.Equal(t, 1, line.Closes())
			assert.Equal(t, tt.wantSleeps, r.sleeps)
			assert.Equal(t, time.Duration(tt.cfg.Count)*(tt.cfg.TimeOn+tt.cfg.TimeOff), r.total())

			// one summary line, two lines per cycle
			assert.Len(t, hook.AllEntries(), 1+2*tt.cfg.Count)
		})
	}
}

func TestBlinker_Run_Counts(t *testing.T) {
	for _, onValue := range []gpio.Level{gpio.High, gpio.Low} {
		for count := 0; count < 10; count++ {
			p := sim.New(1)
			b, _, _ := newTestBlinker(p, configuration.BlinkConfiguration{Count: count, OnValue: onValue})
			require.NoError(t, b.Run(context.Background()))

			var on, off int
			for _, level := range p.Line(0).Writes() {
				switch level {
				case onValue:
					on++
				case onValue.Invert():
					off++
				}
			}
			assert.Equal(t, count, on)
			assert.Equal(t, count+1, off)
			assert.Equal(t, 1, p.Line(0).Closes())
		}
	}
}

func TestBlinker_Run_Reporting(t *testing.T) {
	p := sim.New(8)
	b, _, hook := newTestBlinker(p, configuration.BlinkConfiguration{Pin: 5, Count: 1, TimeOn: time.Millisecond, OnValue: gpio.Low})
	require.NoError(t, b.Run(context.Background()))

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "blinking led", entries[0].Message)
	assert.Equal(t, 5, entries[0].Data["pin"])
	assert.Equal(t, gpio.Low, entries[0].Data["onValue"])
	assert.Equal(t, "sim", entries[0].Data["driver"])
	assert.Equal(t, "turn the LED on and wait 1ms", entries[1].Message)
	assert.Equal(t, 0, entries[1].Data["index"])
	assert.Equal(t, "turn the LED off and wait 0s", entries[2].Message)
}

func TestBlinker_Run_AcquireFailure(t *testing.T) {
	p := mocks.NewProvider(t)
	p.On("Name").Return("mock")
	p.On("Open", 99).Return(nil, gpio.ErrInvalidPin).Once()

	b, r, _ := newTestBlinker(p, configuration.BlinkConfiguration{Pin: 99, Count: 3, OnValue: gpio.High})
	err := b.Run(context.Background())
	assert.ErrorIs(t, err, ErrAcquire)
	assert.ErrorIs(t, err, gpio.ErrInvalidPin)
	assert.Empty(t, r.sleeps)
}

func TestBlinker_Run_AcquireBusy(t *testing.T) {
	p := sim.New(8)
	l, err := p.Open(3)
	require.NoError(t, err)

	b, _, _ := newTestBlinker(p, configuration.BlinkConfiguration{Pin: 3, Count: 1})
	err = b.Run(context.Background())
	assert.ErrorIs(t, err, ErrAcquire)
	assert.ErrorIs(t, err, gpio.ErrBusy)
	assert.Empty(t, p.Line(3).Writes())
	require.NoError(t, l.Close())
}

func TestBlinker_Run_WriteFailure(t *testing.T) {
	errWrite := errors.New("line unavailable")

	tests := []struct {
		name  string
		setup func(l *mocks.Line)
	}{
		{
			name: "initial off",
			setup: func(l *mocks.Line) {
				l.On("Write", gpio.Low).Return(errWrite).Once()
			},
		},
		{
			name: "mid cycle",
			setup: func(l *mocks.Line) {
				l.On("Write", gpio.Low).Return(nil).Once()
				l.On("Write", gpio.High).Return(nil).Once()
				l.On("Write", gpio.Low).Return(nil).Once()
				l.On("Write", gpio.High).Return(errWrite).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mocks.NewLine(t)
			tt.setup(l)
			l.On("Close").Return(nil).Once()

			p := mocks.NewProvider(t)
			p.On("Name").Return("mock")
			p.On("Open", 4).Return(l, nil).Once()

			b, _, _ := newTestBlinker(p, configuration.BlinkConfiguration{Pin: 4, Count: 5, OnValue: gpio.High})
			err := b.Run(context.Background())
			assert.ErrorIs(t, err, ErrWrite)
			assert.ErrorIs(t, err, errWrite)
			l.AssertNumberOfCalls(t, "Close", 1)
		})
	}
}

func TestBlinker_Run_CloseFailure(t *testing.T) {
	l := mocks.NewLine(t)
	l.On("Write", mock.AnythingOfType("gpio.Level")).Return(nil)
	l.On("Close").Return(errors.New("close failed")).Once()

	p := mocks.NewProvider(t)
	p.On("Name").Return("mock")
	p.On("Open", 1).Return(l, nil).Once()

	b, _, hook := newTestBlinker(p, configuration.BlinkConfiguration{Pin: 1, Count: 1})
	assert.NoError(t, b.Run(context.Background()))
	l.AssertNumberOfCalls(t, "Write", 3)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}

func TestBlinker_Run_InvalidConfiguration(t *testing.T) {
	p := mocks.NewProvider(t)

	b, _, _ := newTestBlinker(p, configuration.BlinkConfiguration{Pin: 1, Count: -1})
	assert.ErrorIs(t, b.Run(context.Background()), configuration.ErrInvalidConfiguration)
}

func TestBlinker_Run_Cancel(t *testing.T) {
	p := sim.New(8)
	logger, _ := test.NewNullLogger()
	b := New(p, configuration.BlinkConfiguration{Pin: 2, Count: 1000, TimeOn: time.Hour, TimeOff: time.Hour, OnValue: gpio.High}, log.NewEntry(logger))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- b.Run(ctx) }()

	require.Eventually(t, func() bool {
		line := p.Line(2)
		return line != nil && line.Level() == gpio.High
	}, time.Second, time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.High}, p.Line(2).Writes())
	assert.Equal(t, 1, p.Line(2).Closes())
}

func TestBlinker_Run_Cancelled(t *testing.T) {
	p := sim.New(8)
	b, _, _ := newTestBlinker(p, configuration.BlinkConfiguration{Pin: 2, Count: 3, OnValue: gpio.High})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.Run(ctx), context.Canceled)
	assert.Equal(t, []gpio.Level{gpio.Low}, p.Line(2).Writes())
	assert.Equal(t, 1, p.Line(2).Closes())
}

func Test_sleep(t *testing.T) {
	assert.NoError(t, sleep(context.Background(), 0))
	assert.NoError(t, sleep(context.Background(), -time.Second))

	start := time.Now()
	assert.NoError(t, sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.DeadlineExceeded)
}

func TestBlinker_Run_DefaultOnValue(t *testing.T) {
	p := sim.New(8)
	b, _, _ := newTestBlinker(p, configuration.BlinkConfiguration{Pin: 2, Count: 1})

	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, []gpio.Level{gpio.High, gpio.Low, gpio.High}, p.Line(2).Writes())
	assert.Equal(t, 1, p.Line(2).Closes())
}
