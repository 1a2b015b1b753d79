// Command nmeasimd runs the NMEA/AIS traffic simulator as a standalone
// process: it loads a YAML configuration (if given), applies pflag
// overrides, starts the simulator, and waits for SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/northstarmarine/nmeasim/internal/sim"
	"github.com/northstarmarine/nmeasim/internal/transport"
)

// fileConfig mirrors the YAML-recognised options; pflag overrides apply
// on top of whatever this file sets. Every field is a pointer (or, for
// ais_names, a slice left nil) so an absent key leaves the built-in
// default alone (tcp_port: 0 still
// disables the fan-out explicitly).
type fileConfig struct {
	UDPHost         *string  `yaml:"udp_host"`
	UDPPort         *int     `yaml:"udp_port"`
	TCPHost         *string  `yaml:"tcp_host"`
	TCPPort         *int     `yaml:"tcp_port"`
	IntervalSeconds *float64 `yaml:"interval"`
	WindEnabled     *bool    `yaml:"wind_enabled"`
	InitialLatDeg   *float64 `yaml:"initial_lat"`
	InitialLonDeg   *float64 `yaml:"initial_lon"`
	InitialSOGKn    *float64 `yaml:"initial_sog"`
	InitialCOGDeg   *float64 `yaml:"initial_cog"`
	InitialTWSKn    *float64 `yaml:"initial_tws"`
	InitialTWDDeg   *float64 `yaml:"initial_twd"`
	MagVarDeg       *float64 `yaml:"magvar"`
	StartDatetime   *string  `yaml:"start_datetime"`
	AISNumTargets   *int     `yaml:"ais_num_targets"`
	AISMaxCOGOffset *float64 `yaml:"ais_max_cog_offset"`
	AISMaxSOGOffset *float64 `yaml:"ais_max_sog_offset"`
	AISRadiusNM     *float64 `yaml:"ais_distribution_radius_nm"`
	AISNames        []string `yaml:"ais_names"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

func main() {
	cfg := sim.DefaultConfig()

	configPath := pflag.StringP("config", "c", "", "Path to a YAML config file.")
	udpHost := pflag.String("udp-host", "127.0.0.1", "UDP destination host.")
	udpPort := pflag.Int("udp-port", cfg.UDPPort, "UDP destination port.")
	tcpHost := pflag.String("tcp-host", cfg.TCPHost, "TCP fan-out bind host.")
	tcpPort := pflag.Int("tcp-port", cfg.TCPPort, "TCP fan-out bind port (0 disables).")
	interval := pflag.Float64("interval", cfg.IntervalSeconds, "Tick interval, seconds.")
	windEnabled := pflag.Bool("wind", cfg.WindEnabled, "Emit wind sentences.")
	lat := pflag.Float64("lat", cfg.InitialLatDeg, "Initial latitude.")
	lon := pflag.Float64("lon", cfg.InitialLonDeg, "Initial longitude.")
	sog := pflag.Float64("sog", cfg.InitialSOGKn, "Initial speed over ground, knots.")
	cog := pflag.Float64("cog", cfg.InitialCOGDeg, "Initial course over ground, degrees.")
	numTargets := pflag.Int("ais-targets", cfg.AISNumTargets, "Number of AIS fleet targets.")
	mdns := pflag.Bool("mdns", true, "Advertise the TCP fan-out endpoint over DNS-SD.")
	help := pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - marine NMEA/AIS traffic simulator\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *configPath != "" {
		fc, err := loadFileConfig(*configPath)
		if err != nil {
			log.Fatal("failed to load config file", "path", *configPath, "err", err)
		}
		applyFileConfig(&cfg, fc)
	}

	applyFlagOverrides(&cfg, udpHost, udpPort, tcpHost, tcpPort, interval, windEnabled, lat, lon, sog, cog, numTargets)

	s := sim.New(cfg)
	if err := s.Start(); err != nil {
		log.Fatal("failed to start simulator", "err", err)
	}
	log.Info("simulator started", "udp", fmt.Sprintf("%s:%d", cfg.UDPHost, cfg.UDPPort), "tcp_port", cfg.TCPPort)

	var stopAnnounce func()
	if *mdns && cfg.TCPPort != 0 {
		cancel, err := transport.AnnounceTCP(context.Background(), "nmeasimd", cfg.TCPPort)
		if err != nil {
			log.Warn("dns-sd announcement failed", "err", err)
		} else {
			stopAnnounce = cancel
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if stopAnnounce != nil {
		stopAnnounce()
	}
	log.Info("shutting down")
	if err := s.Stop(); err != nil {
		log.Error("error stopping simulator", "err", err)
	}
	time.Sleep(50 * time.Millisecond)
}

func applyFileConfig(cfg *sim.Config, fc fileConfig) {
	if fc.UDPHost != nil {
		cfg.UDPHost = *fc.UDPHost
	}
	if fc.UDPPort != nil {
		cfg.UDPPort = *fc.UDPPort
	}
	if fc.TCPHost != nil {
		cfg.TCPHost = *fc.TCPHost
	}
	if fc.TCPPort != nil {
		cfg.TCPPort = *fc.TCPPort
	}
	if fc.IntervalSeconds != nil {
		cfg.IntervalSeconds = *fc.IntervalSeconds
	}
	if fc.WindEnabled != nil {
		cfg.WindEnabled = *fc.WindEnabled
	}
	if fc.InitialLatDeg != nil {
		cfg.InitialLatDeg = *fc.InitialLatDeg
	}
	if fc.InitialLonDeg != nil {
		cfg.InitialLonDeg = *fc.InitialLonDeg
	}
	if fc.InitialSOGKn != nil {
		cfg.InitialSOGKn = *fc.InitialSOGKn
	}
	if fc.InitialCOGDeg != nil {
		cfg.InitialCOGDeg = *fc.InitialCOGDeg
	}
	if fc.InitialTWSKn != nil {
		cfg.InitialTWSKn = *fc.InitialTWSKn
	}
	if fc.InitialTWDDeg != nil {
		cfg.InitialTWDDeg = *fc.InitialTWDDeg
	}
	if fc.MagVarDeg != nil {
		cfg.MagneticVariationDeg = *fc.MagVarDeg
	}
	if fc.StartDatetime != nil {
		if t, err := time.Parse(time.RFC3339, *fc.StartDatetime); err == nil {
			utc := t.UTC()
			cfg.StartDatetime = &utc
		} else {
			log.Warn("ignoring unparseable start_datetime", "value", *fc.StartDatetime, "err", err)
		}
	}
	if fc.AISNumTargets != nil {
		cfg.AISNumTargets = *fc.AISNumTargets
	}
	if fc.AISMaxCOGOffset != nil {
		cfg.AISMaxCOGOffsetDeg = *fc.AISMaxCOGOffset
	}
	if fc.AISMaxSOGOffset != nil {
		cfg.AISMaxSOGOffsetKn = *fc.AISMaxSOGOffset
	}
	if fc.AISRadiusNM != nil {
		cfg.AISDistributionRadiusNM = *fc.AISRadiusNM
	}
	if fc.AISNames != nil {
		cfg.AISNames = fc.AISNames
	}
}

func applyFlagOverrides(
	cfg *sim.Config,
	udpHost *string, udpPort *int, tcpHost *string, tcpPort *int,
	interval *float64, windEnabled *bool,
	lat, lon, sog, cog *float64, numTargets *int,
) {
	visited := make(map[string]bool)
	pflag.Visit(func(f *pflag.Flag) { visited[f.Name] = true })

	if visited["udp-host"] {
		cfg.UDPHost = *udpHost
	} else if cfg.UDPHost == "" {
		cfg.UDPHost = *udpHost
	}
	if visited["udp-port"] {
		cfg.UDPPort = *udpPort
	}
	if visited["tcp-host"] {
		cfg.TCPHost = *tcpHost
	}
	if visited["tcp-port"] {
		cfg.TCPPort = *tcpPort
	}
	if visited["interval"] {
		cfg.IntervalSeconds = *interval
	}
	if visited["wind"] {
		cfg.WindEnabled = *windEnabled
	}
	if visited["lat"] {
		cfg.InitialLatDeg = *lat
	}
	if visited["lon"] {
		cfg.InitialLonDeg = *lon
	}
	if visited["sog"] {
		cfg.InitialSOGKn = *sog
	}
	if visited["cog"] {
		cfg.InitialCOGDeg = *cog
	}
	if visited["ais-targets"] {
		cfg.AISNumTargets = *numTargets
	}
}
