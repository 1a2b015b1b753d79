package fleet

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/northstarmarine/nmeasim/internal/gpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testConfig(n int) Config {
	return Config{
		NumTargets:           n,
		MaxCOGOffsetDeg:      15,
		MaxSOGOffsetKn:       3,
		DistributionRadiusNM: 5,
	}
}

func TestNewAssignsSequentialMMSI(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	f := New(testConfig(5), 10, 20, 8, 45, nil, rng)
	require.Len(t, f.Targets, 5)
	for i, target := range f.Targets {
		assert.Equal(t, baseMMSI+i, target.MMSI)
		assert.NotEmpty(t, target.Name)
	}
}

func TestNewDistributesWithinRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	f := New(testConfig(30), 0, 0, 5, 0, nil, rng)
	for _, target := range f.Targets {
		dist := haversineApprox(0, 0, target.LatDeg, target.LonDeg)
		assert.LessOrEqual(t, dist, 5.5)
	}
}

// haversineApprox avoids importing geomath just to duplicate its own test
// coverage; a flat-earth approximation is fine at these small radii.
func haversineApprox(lat1, lon1, lat2, lon2 float64) float64 {
	dLatNM := (lat2 - lat1) * 60
	dLonNM := (lon2 - lon1) * 60
	return math.Sqrt(dLatNM*dLatNM + dLonNM*dLonNM)
}

func TestUpdateFreeKeepsWithinClamps(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cfg := testConfig(10)
	f := New(cfg, 0, 0, 5, 90, nil, rng)

	for tick := 0; tick < 50; tick++ {
		f.UpdateFree(5, 90, 10, cfg)
	}
	for _, target := range f.Targets {
		assert.GreaterOrEqual(t, target.SOGKn, 0.0)
		assert.GreaterOrEqual(t, target.COGDeg, 0.0)
		assert.Less(t, target.COGDeg, 360.0)
		assert.Equal(t, target.COGDeg, target.HeadingDeg)
	}
}

func TestMinuteBoundaryCrossed(t *testing.T) {
	assert.False(t, MinuteBoundaryCrossed(65, 119))
	assert.True(t, MinuteBoundaryCrossed(65, 120))
	assert.True(t, MinuteBoundaryCrossed(0, 61))
}

func TestUpdateGPXShadowTimeIndexed(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []gpx.Point{
		{LatDeg: 0, LonDeg: 0, Time: tp(start)},
		{LatDeg: 1, LonDeg: 1, Time: tp(start.Add(time.Hour))},
	}
	track, err := gpx.NewTrack(points)
	require.NoError(t, err)
	require.True(t, track.TimeIndexed)

	rng := rand.New(rand.NewSource(4))
	cfg := testConfig(3)
	f := New(cfg, 0, 0, 5, 45, track, rng)

	f.UpdateGPXShadow(start.Add(30*time.Minute), 0, cfg)
	for _, target := range f.Targets {
		assert.InDelta(t, 0.5, target.LatDeg, 0.2)
		assert.InDelta(t, 0.5, target.LonDeg, 0.2)
	}
}

func tp(t time.Time) *time.Time { return &t }

func TestNewAlongTrackOffsetsWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		rng := rand.New(rand.NewSource(seed))
		points := []gpx.Point{{LatDeg: 0, LonDeg: 0}, {LatDeg: 1, LonDeg: 1}, {LatDeg: 2, LonDeg: 2}}
		track, err := gpx.NewTrack(points)
		require.NoError(t, err)

		cfg := testConfig(5)
		f := New(cfg, 0, 0, 5, 0, track, rng)
		for _, target := range f.Targets {
			if target.IndexOffset < -50 || target.IndexOffset > 50 {
				rt.Fatalf("index offset out of bounds: %d", target.IndexOffset)
			}
		}
	})
}
