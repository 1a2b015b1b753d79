package sim

import (
	"fmt"
	"time"

	"github.com/northstarmarine/nmeasim/internal/gnss"
)

// OwnShipState is the simulator's mutated-by-the-tick-loop-only kinematic
// record. All fields are read/written under the simulator's single
// mutex.
type OwnShipState struct {
	LatDeg float64
	LonDeg float64
	SOGKn  float64
	COGDeg float64
	TWSKn  float64
	TWDDeg float64
}

// TargetStatus is the status-API projection of one AIS fleet member.
type TargetStatus struct {
	MMSI        int
	LatDeg      float64
	LonDeg      float64
	SOGKn       float64
	COGDeg      float64
	Name        string
	DisplayName string
}

func displayName(name string, sogKn, cogDeg float64) string {
	return fmt.Sprintf("%s (SOG %.1f kn, COG %.0f°)", name, sogKn, cogDeg)
}

// TrackProgress reports replay progress for an active GPX track.
type TrackProgress struct {
	Mode     string // "time" or "index"
	OffsetS  float64
	SimTime  *time.Time
	Index    int
	Fraction float64
}

// PeerStatus is the status-API projection of one connected TCP client.
type PeerStatus struct {
	Addr        string
	ConnectedAt time.Time
}

// Snapshot is the value returned by Status(): a coherent, point-in-time
// copy of everything the simulator tracks.
type Snapshot struct {
	Running bool

	UDPHost string
	UDPPort int
	TCPHost string
	TCPPort int

	IntervalSeconds float64
	WindEnabled     bool

	OwnShip OwnShipState
	SimTime *time.Time

	GNSS gnss.Snapshot

	Targets []TargetStatus

	StreamSize int
	TCPPeers   []PeerStatus

	Track *TrackProgress
}
