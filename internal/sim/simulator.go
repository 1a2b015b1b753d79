// Package sim is the tick engine: it owns OwnShipState and the AIS
// fleet, composes each tick's sentence packet, and publishes it to the UDP
// emitter, the TCP fan-out, the ring buffer, and the status snapshot.
package sim

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/northstarmarine/nmeasim/internal/ais"
	"github.com/northstarmarine/nmeasim/internal/fleet"
	"github.com/northstarmarine/nmeasim/internal/gnss"
	"github.com/northstarmarine/nmeasim/internal/gpx"
	"github.com/northstarmarine/nmeasim/internal/kinematics"
	"github.com/northstarmarine/nmeasim/internal/nmea"
	"github.com/northstarmarine/nmeasim/internal/transport"
)

const stopTimeout = 5 * time.Second

// Simulator is the tick engine and its owned state. One instance per
// running simulation; the control layer is responsible for holding it
// behind a lock and never sharing it globally.
type Simulator struct {
	cfg    Config
	logger *log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	own         OwnShipState
	simTime     *time.Time
	gnssGen     *gnss.Generator
	lastGNSS    gnss.Snapshot
	fl          *fleet.Fleet
	indexCursor *gpx.IndexCursor
	rng         *rand.Rand

	lastMinuteEpoch int64
	type24Due       bool
	droppedPackets  int

	ringBuf ring
	udp     *transport.UDPEmitter
	tcp     *transport.TCPFanout
}

// New constructs a Simulator; Start must be called before it does
// anything.
func New(cfg Config) *Simulator {
	return &Simulator{
		cfg:    cfg,
		logger: log.Default().With("component", "sim"),
	}
}

// Start validates the configuration, binds the UDP/TCP sockets, and
// launches the tick-loop worker. On any bind failure no worker is left
// running.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return &StateConflict{Operation: "start", Reason: "already running"}
	}

	if err := s.cfg.Validate(); err != nil {
		return err
	}

	udp, err := transport.NewUDPEmitter(s.cfg.UDPHost, s.cfg.UDPPort)
	if err != nil {
		return &BindError{Endpoint: fmt.Sprintf("udp %s:%d", s.cfg.UDPHost, s.cfg.UDPPort), Err: err}
	}

	var tcp *transport.TCPFanout
	if s.cfg.TCPPort != 0 {
		tcp, err = transport.NewTCPFanout(s.cfg.TCPHost, s.cfg.TCPPort)
		if err != nil {
			udp.Close()
			return &BindError{Endpoint: fmt.Sprintf("tcp %s:%d", s.cfg.TCPHost, s.cfg.TCPPort), Err: err}
		}
	}

	s.udp = udp
	s.tcp = tcp
	s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	s.gnssGen = gnss.NewGenerator(s.rng.Int63())
	s.ringBuf = ring{}
	s.droppedPackets = 0

	s.own = OwnShipState{
		LatDeg: s.cfg.InitialLatDeg,
		LonDeg: s.cfg.InitialLonDeg,
		SOGKn:  s.cfg.InitialSOGKn,
		COGDeg: s.cfg.InitialCOGDeg,
		TWSKn:  s.cfg.InitialTWSKn,
		TWDDeg: s.cfg.InitialTWDDeg,
	}

	if s.cfg.StartDatetime != nil {
		t := *s.cfg.StartDatetime
		s.simTime = &t
	} else {
		s.simTime = nil
	}

	if s.cfg.GPXTrack != nil && !s.cfg.GPXTrack.TimeIndexed {
		frac := 0.0
		if s.cfg.GPXStartFractionSet {
			frac = s.cfg.GPXStartFraction
		}
		s.indexCursor = gpx.NewIndexCursor(s.cfg.GPXTrack, frac)
	}

	fleetCfg := fleet.Config{
		NumTargets:           s.cfg.AISNumTargets,
		MaxCOGOffsetDeg:      s.cfg.AISMaxCOGOffsetDeg,
		MaxSOGOffsetKn:       s.cfg.AISMaxSOGOffsetKn,
		DistributionRadiusNM: s.cfg.AISDistributionRadiusNM,
		ExternalNames:        s.cfg.AISNames,
	}
	s.fl = fleet.New(fleetCfg, s.own.LatDeg, s.own.LonDeg, s.own.SOGKn, s.own.COGDeg, s.cfg.GPXTrack, s.rng)

	// -1 guarantees the first tick's minute (>= 0) always counts as a
	// boundary crossing, so every target gets its initial static report.
	s.lastMinuteEpoch = -1

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true

	go s.loop()
	return nil
}

// Stop signals the worker to exit, waits up to stopTimeout for it to do
// so, and releases the sockets.
func (s *Simulator) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return &StateConflict{Operation: "stop", Reason: "not running"}
	}
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		s.logger.Warn("worker did not exit within stop timeout")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeTransportsLocked()
	s.running = false
	return nil
}

func (s *Simulator) closeTransportsLocked() {
	if s.udp != nil {
		s.udp.Close()
		s.udp = nil
	}
	if s.tcp != nil {
		s.tcp.Close()
		s.tcp = nil
	}
}

// Restart stops the simulator (if running) and starts it again with a new
// configuration.
func (s *Simulator) Restart(cfg Config) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if running {
		if err := s.Stop(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return s.Start()
}

// loop is the dedicated worker. A panic anywhere in a tick is caught
// here: the worker logs it, releases the sockets, and exits with the
// status snapshot reflecting running=false.
func (s *Simulator) loop() {
	defer close(s.doneCh)
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("**ERR: tick loop aborted: %v\n", r)
			s.logger.Error("tick loop aborted", "err", r)
			s.mu.Lock()
			s.closeTransportsLocked()
			s.running = false
			s.mu.Unlock()
		}
	}()

	interval := time.Duration(s.cfg.IntervalSeconds * float64(time.Second))
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		s.tick()

		select {
		case <-s.stopCh:
			return
		case <-time.After(interval):
		}
	}
}

// tick runs one iteration: advance state under the mutex, then
// publish outside it.
func (s *Simulator) tick() {
	s.mu.Lock()

	if s.tcp != nil {
		s.tcp.AcceptPending()
	}

	currentUTC := s.currentUTCLocked()
	if s.simTime != nil {
		advanced := s.simTime.Add(time.Duration(s.cfg.IntervalSeconds * float64(time.Second)))
		s.simTime = &advanced
	}

	s.advanceOwnShipLocked(currentUTC)

	wind := kinematics.DeriveWind(kinematics.State{
		LatDeg: s.own.LatDeg, LonDeg: s.own.LonDeg,
		SOGKn: s.own.SOGKn, COGDeg: s.own.COGDeg,
		TWSKn: s.own.TWSKn, TWDDeg: s.own.TWDDeg,
	}, s.cfg.MagneticVariationDeg, s.rng)

	s.lastGNSS = s.gnssGen.Next()

	s.updateFleetLocked(currentUTC)

	s.type24Due = fleet.MinuteBoundaryCrossed(s.lastMinuteEpoch*60, currentUTC.Unix())
	if s.type24Due {
		s.lastMinuteEpoch = currentUTC.Unix() / 60
	}

	packet := s.composePacketLocked(currentUTC, wind)

	s.ringBuf.appendPacket(packet)
	s.printConsoleLineLocked(currentUTC, wind)

	udp := s.udp
	tcp := s.tcp
	s.mu.Unlock()

	data := []byte(packet)
	if udp != nil {
		if err := udp.Send(data); err != nil {
			ioErr := &TransientIOError{Op: "udp send", Err: err}
			fmt.Printf("**ERR: %v\n", ioErr)
			s.logger.Warn("udp send failed", "err", err)
			s.mu.Lock()
			s.droppedPackets++
			s.mu.Unlock()
		}
	}
	if tcp != nil {
		tcp.Broadcast(data)
	}
}

func (s *Simulator) currentUTCLocked() time.Time {
	if s.simTime != nil {
		return *s.simTime
	}
	return time.Now().UTC()
}

func (s *Simulator) advanceOwnShipLocked(currentUTC time.Time) {
	if s.cfg.GPXTrack != nil {
		s.advanceOwnShipGPXLocked(currentUTC)
		return
	}

	next := kinematics.Step(kinematics.State{
		LatDeg: s.own.LatDeg, LonDeg: s.own.LonDeg,
		SOGKn: s.own.SOGKn, COGDeg: s.own.COGDeg,
		TWSKn: s.own.TWSKn, TWDDeg: s.own.TWDDeg,
	}, s.cfg.IntervalSeconds, s.rng)

	s.own = OwnShipState{
		LatDeg: next.LatDeg, LonDeg: next.LonDeg,
		SOGKn: next.SOGKn, COGDeg: next.COGDeg,
		TWSKn: next.TWSKn, TWDDeg: next.TWDDeg,
	}
}

func (s *Simulator) advanceOwnShipGPXLocked(currentUTC time.Time) {
	track := s.cfg.GPXTrack
	var sample gpx.Sample
	if track.TimeIndexed {
		sample = track.SampleAtTime(currentUTC)
	} else {
		sample = s.indexCursor.Step(track, s.own.SOGKn, s.cfg.IntervalSeconds)
	}

	s.own.LatDeg = sample.LatDeg
	s.own.LonDeg = sample.LonDeg
	s.own.SOGKn = sample.SOGKn
	s.own.COGDeg = sample.COGDeg

	s.own.TWSKn, s.own.TWDDeg = kinematics.WindWalk(s.own.TWSKn, s.own.TWDDeg, s.rng)
}

func (s *Simulator) updateFleetLocked(currentUTC time.Time) {
	fleetCfg := fleet.Config{
		MaxCOGOffsetDeg: s.cfg.AISMaxCOGOffsetDeg,
		MaxSOGOffsetKn:  s.cfg.AISMaxSOGOffsetKn,
	}
	if s.cfg.GPXTrack != nil {
		cursorIdx := 0
		if s.indexCursor != nil {
			cursorIdx = s.indexCursor.Index
		}
		s.fl.UpdateGPXShadow(currentUTC, cursorIdx, fleetCfg)
		return
	}
	s.fl.UpdateFree(s.own.SOGKn, s.own.COGDeg, s.cfg.IntervalSeconds, fleetCfg)
}

// composePacketLocked concatenates the tick's sentences in the exact
// order.
func (s *Simulator) composePacketLocked(t time.Time, wind kinematics.Wind) string {
	var b strings.Builder

	b.WriteString(nmea.GPRMC(t, s.own.LatDeg, s.own.LonDeg, s.own.SOGKn, s.own.COGDeg, s.cfg.MagneticVariationDeg))
	b.WriteString(nmea.GPGGA(t, s.own.LatDeg, s.own.LonDeg, s.lastGNSS.SatsUsed, s.lastGNSS.HDOP, 0.0))
	b.WriteString(nmea.GPVTG(s.own.COGDeg, wind.COGMagnetic, s.own.SOGKn))
	b.WriteString(nmea.GPGSA('A', 3, s.lastGNSS.UsedPRNs, s.lastGNSS.PDOP, s.lastGNSS.HDOP, s.lastGNSS.VDOP))

	sats := make([]nmea.Satellite, len(s.lastGNSS.Satellites))
	for i, sat := range s.lastGNSS.Satellites {
		sats[i] = nmea.Satellite{PRN: sat.PRN, Elev: sat.Elev, Az: sat.Az, SNR: sat.SNR}
	}
	for _, line := range nmea.GPGSV(sats) {
		b.WriteString(line)
	}

	if s.type24Due {
		for _, target := range s.fl.Targets {
			name := ais.FleetStaticName(target.Name, target.SOGKn, target.COGDeg)
			b.WriteString(ais.Type24A{MMSI: target.MMSI, Name: name}.Encode())
		}
	}

	for _, target := range s.fl.Targets {
		b.WriteString(ais.Type18{
			MMSI: target.MMSI, LatDeg: target.LatDeg, LonDeg: target.LonDeg,
			SOGKn: target.SOGKn, COGDeg: target.COGDeg, HeadingDeg: target.HeadingDeg,
			TimestampSec: t.Second(),
		}.Encode())
	}

	if s.cfg.WindEnabled {
		b.WriteString(nmea.WIMWD(s.own.TWDDeg, wind.TWDMagnetic, s.own.TWSKn))
		b.WriteString(nmea.WIMWVTrue(wind.TWA, s.own.TWSKn))
		b.WriteString(nmea.WIMWVApparent(wind.AWA, wind.AWS))
	}

	return b.String()
}

func (s *Simulator) printConsoleLineLocked(t time.Time, wind kinematics.Wind) {
	windInfo := ""
	if s.cfg.WindEnabled {
		windInfo = fmt.Sprintf(", TWS=%.1f, TWD=%.1f", s.own.TWSKn, s.own.TWDDeg)
	}
	fmt.Printf("Sent at %s: Lat=%.4f, Lon=%.4f, SOG=%.1f, COG=%.1f%s\n",
		t.Format("15:04:05"), s.own.LatDeg, s.own.LonDeg, s.own.SOGKn, s.own.COGDeg, windInfo)
}

// Status returns a coherent snapshot of the running simulator.
func (s *Simulator) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Running:         s.running,
		UDPHost:         s.cfg.UDPHost,
		UDPPort:         s.cfg.UDPPort,
		TCPHost:         s.cfg.TCPHost,
		TCPPort:         s.cfg.TCPPort,
		IntervalSeconds: s.cfg.IntervalSeconds,
		WindEnabled:     s.cfg.WindEnabled,
		OwnShip:         s.own,
		GNSS:            s.lastGNSS,
		StreamSize:      s.ringBuf.size(),
	}

	if s.simTime != nil {
		t := *s.simTime
		snap.SimTime = &t
	}

	if s.fl != nil {
		snap.Targets = make([]TargetStatus, len(s.fl.Targets))
		for i, target := range s.fl.Targets {
			snap.Targets[i] = TargetStatus{
				MMSI: target.MMSI, LatDeg: target.LatDeg, LonDeg: target.LonDeg,
				SOGKn: target.SOGKn, COGDeg: target.COGDeg, Name: target.Name,
				DisplayName: displayName(target.Name, target.SOGKn, target.COGDeg),
			}
		}
	}

	if s.tcp != nil {
		peers := s.tcp.Peers()
		snap.TCPPeers = make([]PeerStatus, len(peers))
		for i, p := range peers {
			snap.TCPPeers[i] = PeerStatus{Addr: p.Addr, ConnectedAt: p.ConnectedAt}
		}
	}

	if s.cfg.GPXTrack != nil {
		if s.cfg.GPXTrack.TimeIndexed {
			cur := s.currentUTCLocked()
			offset := cur.Sub(s.cfg.GPXTrack.StartTime()).Seconds()
			snap.Track = &TrackProgress{Mode: "time", OffsetS: offset, SimTime: snap.SimTime}
		} else if s.indexCursor != nil {
			n := len(s.cfg.GPXTrack.Points)
			fraction := float64(s.indexCursor.Index) / float64(n-1)
			snap.Track = &TrackProgress{Mode: "index", Index: s.indexCursor.Index, Fraction: fraction}
		}
	}

	return snap
}

// Stream returns the most recent min(limit, 200) emitted lines.
func (s *Simulator) Stream(limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ringBuf.tail(limit)
}
