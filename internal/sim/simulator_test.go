package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.UDPHost = "127.0.0.1"
	cfg.UDPPort = 19210
	cfg.TCPPort = 19211
	cfg.IntervalSeconds = 0.02
	cfg.InitialLatDeg = 47.0
	cfg.InitialLonDeg = -122.0
	cfg.InitialSOGKn = 5
	cfg.InitialCOGDeg = 90
	cfg.AISNumTargets = 2
	return cfg
}

func TestSimulatorStartTicksAndStop(t *testing.T) {
	s := New(smallConfig())
	require.NoError(t, s.Start())

	time.Sleep(150 * time.Millisecond)

	status := s.Status()
	assert.True(t, status.Running)
	assert.Greater(t, status.StreamSize, 0)
	assert.Len(t, status.Targets, 2)

	lines := s.Stream(200)
	assert.NotEmpty(t, lines)
	for _, line := range lines {
		assert.True(t, line[0] == '$' || line[0] == '!')
	}

	require.NoError(t, s.Stop())
	status = s.Status()
	assert.False(t, status.Running)
}

func TestSimulatorStartTwiceIsStateConflict(t *testing.T) {
	cfg := smallConfig()
	cfg.UDPPort = 19212
	cfg.TCPPort = 19213
	s := New(cfg)
	require.NoError(t, s.Start())
	defer s.Stop()

	err := s.Start()
	var conflict *StateConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestSimulatorStopWhenNotRunningIsStateConflict(t *testing.T) {
	s := New(smallConfig())
	err := s.Stop()
	var conflict *StateConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestSimulatorRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.UDPHost = ""
	s := New(cfg)
	err := s.Start()
	var cerr *ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestSimulatorStaticReportsOncePerMinute(t *testing.T) {
	cfg := smallConfig()
	cfg.UDPPort = 19216
	cfg.TCPPort = 0
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg.StartDatetime = &start

	s := New(cfg)
	require.NoError(t, s.Start())
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, s.Stop())

	// Sim time only advances 0.02 s per tick, so the single minute
	// boundary seen is the first tick's. A Type 24 payload starts with
	// armored message id 24 ('H'); Type 18 starts with 'B'.
	var type24, type18 int
	for _, line := range s.Stream(200) {
		if !strings.HasPrefix(line, "!AIVDM") {
			continue
		}
		payload := strings.Split(line, ",")[5]
		switch payload[0] {
		case 'H':
			type24++
		case 'B':
			type18++
		}
	}
	assert.Equal(t, cfg.AISNumTargets, type24)
	assert.Greater(t, type18, type24)
}

func TestSimulatorStreamBoundedByRingCapacity(t *testing.T) {
	cfg := smallConfig()
	cfg.UDPPort = 19214
	cfg.TCPPort = 19215
	s := New(cfg)
	require.NoError(t, s.Start())
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, s.Stop())

	lines := s.Stream(200)
	assert.LessOrEqual(t, len(lines), ringCapacity)
}
