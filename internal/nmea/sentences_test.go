package nmea

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGPRMCFraming(t *testing.T) {
	tm := time.Date(2024, 3, 1, 12, 34, 56, 0, time.UTC)
	line := GPRMC(tm, 47.0707, -122.0, 5.3, 47.0, -2.5)
	require.True(t, strings.HasPrefix(line, "$GPRMC,"))
	require.True(t, strings.HasSuffix(line, "\r\n"))
	body := strings.TrimSuffix(strings.TrimPrefix(line, "$"), "\r\n")
	parts := strings.SplitN(body, "*", 2)
	assert.Equal(t, ChecksumHex(parts[0]), parts[1])
}

func TestGPGSASlotCount(t *testing.T) {
	line := GPGSA('A', 3, []int{4, 7, 12}, 1.5, 0.9, 1.2)
	body := strings.TrimSuffix(strings.TrimPrefix(line, "$"), "\r\n")
	fields := strings.Split(strings.SplitN(body, "*", 2)[0], ",")
	// GPGSA,mode,fixtype,12 slots,pdop,hdop,vdop = 3 + 12 + 3 = 18
	assert.Len(t, fields, 18)
	assert.Equal(t, "04", fields[3])
	assert.Equal(t, "", fields[6])
}

func TestGPGSVGrouping(t *testing.T) {
	sats := make([]Satellite, 10)
	for i := range sats {
		sats[i] = Satellite{PRN: i + 1, Elev: 30, Az: 90, SNR: 40}
	}
	lines := GPGSV(sats)
	require.Len(t, lines, 3) // 4 + 4 + 2
	last := strings.TrimSuffix(strings.TrimPrefix(lines[2], "$"), "\r\n")
	fields := strings.Split(strings.SplitN(last, "*", 2)[0], ",")
	// GPGSV,totalmsgs,idx,totalsats + 2 tuples * 4 = 4 + 8 = 12
	assert.Len(t, fields, 12)
}

func TestAllSentencesAreWellFormed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lat := rapid.Float64Range(-89, 89).Draw(rt, "lat")
		lon := rapid.Float64Range(-179, 179).Draw(rt, "lon")
		sog := rapid.Float64Range(0, 15).Draw(rt, "sog")
		cog := rapid.Float64Range(0, 359.9).Draw(rt, "cog")
		magvar := rapid.Float64Range(-20, 20).Draw(rt, "magvar")

		for _, line := range []string{
			GPRMC(time.Now().UTC(), lat, lon, sog, cog, magvar),
			GPGGA(time.Now().UTC(), lat, lon, 8, 1.2, 3.0),
			GPVTG(cog, cog, sog),
			WIMWD(cog, cog, sog),
			WIMWVTrue(cog, sog),
			WIMWVApparent(cog, sog),
		} {
			requireWellFormed(rt, line)
		}
	})
}

func requireWellFormed(rt *rapid.T, line string) {
	if !strings.HasPrefix(line, "$") {
		rt.Fatalf("missing $ prefix: %q", line)
	}
	if !strings.HasSuffix(line, "\r\n") {
		rt.Fatalf("missing CRLF suffix: %q", line)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, "$"), "\r\n")
	parts := strings.SplitN(body, "*", 2)
	if len(parts) != 2 {
		rt.Fatalf("missing checksum delimiter: %q", line)
	}
	if ChecksumHex(parts[0]) != parts[1] {
		rt.Fatalf("checksum mismatch: %q", line)
	}
}
