// Package gnss generates the synthetic satellite-fix picture (GNSSSnapshot)
// published alongside each tick's NMEA packet. The snapshot is informational
// only: it feeds GPGSA/GPGSV field values and the status API, and is
// regenerated from scratch every tick rather than evolved.
package gnss

import (
	"math/rand"
	"sort"
)

// Satellite is one entry in a GNSSSnapshot's sky picture.
type Satellite struct {
	PRN  int
	Elev int
	Az   int
	SNR  int
}

// Snapshot is the per-tick satellite and DOP picture.
type Snapshot struct {
	SatsInView int
	SatsUsed   int
	UsedPRNs   []int
	Satellites []Satellite
	PDOP       float64
	HDOP       float64
	VDOP       float64
}

// Generator produces Snapshots from a seedable source, so runs are
// reproducible in tests without needing a fixed global RNG.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator builds a Generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) intRange(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) floatRange(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// Next draws a fresh Snapshot: sats_in_view in [8,14], sats_used in
// [6, sats_in_view], one satellite record per visible PRN, and PDOP/HDOP/VDOP
// each drawn independently within their ranges.
func (g *Generator) Next() Snapshot {
	satsInView := g.intRange(8, 14)
	satsUsed := g.intRange(6, satsInView)

	prns := g.rng.Perm(32)
	for i := range prns {
		prns[i]++ // PRN range is 1..32
	}
	visible := prns[:satsInView]

	sats := make([]Satellite, satsInView)
	for i, prn := range visible {
		sats[i] = Satellite{
			PRN:  prn,
			Elev: g.intRange(5, 85),
			Az:   g.intRange(0, 359),
			SNR:  g.intRange(20, 48),
		}
	}
	sort.Slice(sats, func(i, j int) bool { return sats[i].PRN < sats[j].PRN })

	used := append([]int(nil), visible[:satsUsed]...)
	sort.Ints(used)

	return Snapshot{
		SatsInView: satsInView,
		SatsUsed:   satsUsed,
		UsedPRNs:   used,
		Satellites: sats,
		PDOP:       g.floatRange(1.3, 3.5),
		HDOP:       g.floatRange(0.7, 2.5),
		VDOP:       g.floatRange(1.0, 3.0),
	}
}
