package gpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func ts(seconds int) *time.Time {
	t := time.Date(2026, 1, 1, 0, 0, seconds, 0, time.UTC)
	return &t
}

func timeIndexedTrack(t *testing.T) *Track {
	t.Helper()
	points := []Point{
		{LatDeg: 0, LonDeg: 0, Time: ts(0)},
		{LatDeg: 1, LonDeg: 1, Time: ts(100)},
	}
	track, err := NewTrack(points)
	require.NoError(t, err)
	require.True(t, track.TimeIndexed)
	return track
}

func TestSampleAtTimeHoldsBeforeStart(t *testing.T) {
	track := timeIndexedTrack(t)
	before := ts(-10)
	sample := track.SampleAtTime(*before)
	assert.Equal(t, 0.0, sample.LatDeg)
	assert.Equal(t, 0.0, sample.LonDeg)
	assert.Equal(t, 0.0, sample.SOGKn)
}

func TestSampleAtTimeHoldsAfterEnd(t *testing.T) {
	track := timeIndexedTrack(t)
	after := ts(200)
	sample := track.SampleAtTime(*after)
	assert.Equal(t, 1.0, sample.LatDeg)
	assert.Equal(t, 1.0, sample.LonDeg)
	assert.Equal(t, 0.0, sample.SOGKn)
}

func TestSampleAtTimeSegmentMidpoint(t *testing.T) {
	track := timeIndexedTrack(t)
	mid := ts(50)
	sample := track.SampleAtTime(*mid)
	assert.InDelta(t, 0.5, sample.LatDeg, 1e-9)
	assert.InDelta(t, 0.5, sample.LonDeg, 1e-9)
	assert.Greater(t, sample.SOGKn, 0.0)
}

func TestNewTrackDetectsIndexStepped(t *testing.T) {
	points := []Point{
		{LatDeg: 0, LonDeg: 0},
		{LatDeg: 1, LonDeg: 1},
		{LatDeg: 2, LonDeg: 2},
	}
	track, err := NewTrack(points)
	require.NoError(t, err)
	assert.False(t, track.TimeIndexed)
}

func TestNewTrackNonMonotonicTimesFallsBackToIndexStepped(t *testing.T) {
	points := []Point{
		{LatDeg: 0, LonDeg: 0, Time: ts(100)},
		{LatDeg: 1, LonDeg: 1, Time: ts(0)},
	}
	track, err := NewTrack(points)
	require.NoError(t, err)
	assert.False(t, track.TimeIndexed)
}

func TestNewTrackRequiresTwoPoints(t *testing.T) {
	_, err := NewTrack([]Point{{LatDeg: 0, LonDeg: 0}})
	assert.Error(t, err)
}

func TestIndexCursorAdvancesAndSnaps(t *testing.T) {
	points := []Point{
		{LatDeg: 0, LonDeg: 0},
		{LatDeg: 0, LonDeg: 1},
		{LatDeg: 0, LonDeg: 2},
	}
	track, err := NewTrack(points)
	require.NoError(t, err)

	cursor := NewIndexCursor(track, 0)
	assert.Equal(t, 0, cursor.Index)

	// A huge step relative to the ~60nm leg snaps straight to the waypoint.
	sample := cursor.Step(track, 10000, 3600)
	assert.Equal(t, 1, cursor.Index)
	assert.InDelta(t, 1.0, sample.LonDeg, 1e-6)
}

func TestIndexCursorStopsAtLastLeg(t *testing.T) {
	points := []Point{
		{LatDeg: 0, LonDeg: 0},
		{LatDeg: 0, LonDeg: 1},
	}
	track, err := NewTrack(points)
	require.NoError(t, err)

	cursor := NewIndexCursor(track, 0)
	for i := 0; i < 5; i++ {
		cursor.Step(track, 10000, 3600)
	}
	assert.Equal(t, 0, cursor.Index)
}

func TestIndexCursorStartFractionSeedsPosition(t *testing.T) {
	points := []Point{
		{LatDeg: 0, LonDeg: 0},
		{LatDeg: 0, LonDeg: 1},
		{LatDeg: 0, LonDeg: 2},
		{LatDeg: 0, LonDeg: 3},
	}
	track, err := NewTrack(points)
	require.NoError(t, err)

	cursor := NewIndexCursor(track, 1.0)
	assert.Equal(t, 2, cursor.Index)
	assert.InDelta(t, 2.0, cursor.LonDeg, 1e-9)
}

func TestIndexCursorStepStaysWithinRanges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 6).Draw(rt, "n")
		points := make([]Point, n)
		for i := range points {
			points[i] = Point{LatDeg: 0, LonDeg: float64(i)}
		}
		track, err := NewTrack(points)
		require.NoError(t, err)

		frac := rapid.Float64Range(0, 1).Draw(rt, "frac")
		cursor := NewIndexCursor(track, frac)
		sog := rapid.Float64Range(0, 60).Draw(rt, "sog")

		for i := 0; i < 20; i++ {
			sample := cursor.Step(track, sog, 600)
			if sample.LonDeg < -1 || sample.LonDeg > float64(n) {
				rt.Fatalf("lon drifted out of track bounds: %v", sample.LonDeg)
			}
			if cursor.Index < 0 || cursor.Index > n-2 {
				rt.Fatalf("cursor index out of bounds: %d", cursor.Index)
			}
		}
	})
}
