package sim

import (
	"time"

	"github.com/northstarmarine/nmeasim/internal/gpx"
)

// Config is the simulator's immutable configuration. Replacing it
// requires a full stop + start.
type Config struct {
	UDPHost string
	UDPPort int
	TCPHost string
	TCPPort int // 0 disables the TCP fan-out.

	IntervalSeconds float64
	WindEnabled     bool

	InitialLatDeg float64
	InitialLonDeg float64
	InitialSOGKn  float64
	InitialCOGDeg float64
	InitialTWSKn  float64
	InitialTWDDeg float64

	MagneticVariationDeg float64
	StartDatetime        *time.Time

	AISNumTargets           int
	AISMaxCOGOffsetDeg      float64
	AISMaxSOGOffsetKn       float64
	AISDistributionRadiusNM float64
	AISNames                []string

	GPXTrack            *gpx.Track
	GPXStartFraction    float64
	GPXStartFractionSet bool
}

// DefaultConfig returns the documented defaults. ais_num_targets and
// ais_distribution_radius_nm each have two documented defaults (0/20 and
// 1.0/10.0); the values below are the first of each pair, and callers
// wanting the other override those two fields.
func DefaultConfig() Config {
	return Config{
		UDPPort:                 10110,
		TCPHost:                 "0.0.0.0",
		TCPPort:                 10111,
		IntervalSeconds:         1.0,
		WindEnabled:             true,
		MagneticVariationDeg:    -2.5,
		AISNumTargets:           0,
		AISMaxCOGOffsetDeg:      20.0,
		AISMaxSOGOffsetKn:       2.0,
		AISDistributionRadiusNM: 1.0,
	}
}

// Validate rejects malformed configuration: bad host, negative
// interval, a GPX track with fewer than two points (gpx.NewTrack already
// refuses such a track; the check here also covers a Track built directly).
func (c Config) Validate() error {
	if c.UDPHost == "" {
		return &ConfigError{Field: "udp_host", Reason: "must not be empty"}
	}
	if c.UDPPort <= 0 || c.UDPPort > 65535 {
		return &ConfigError{Field: "udp_port", Reason: "must be in 1..65535"}
	}
	if c.TCPPort != 0 && (c.TCPPort < 0 || c.TCPPort > 65535) {
		return &ConfigError{Field: "tcp_port", Reason: "must be in 0..65535"}
	}
	if c.IntervalSeconds <= 0 {
		return &ConfigError{Field: "interval", Reason: "must be positive"}
	}
	if c.AISNumTargets < 0 {
		return &ConfigError{Field: "ais_num_targets", Reason: "must not be negative"}
	}
	if c.AISDistributionRadiusNM < 0 {
		return &ConfigError{Field: "ais_distribution_radius_nm", Reason: "must not be negative"}
	}
	if c.GPXTrack != nil && len(c.GPXTrack.Points) < 2 {
		return &ConfigError{Field: "gpx_track", Reason: "must have at least two points"}
	}
	return nil
}
