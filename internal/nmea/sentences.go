package nmea

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// timeField renders a UTC instant as NMEA "HHMMSS.ss" (exactly two
// fractional digits). The integer H/M/S portion is rendered via
// lestrrat-go/strftime; the sub-second digits are appended separately since
// strftime has no fractional-second verb.
func timeField(t time.Time) string {
	hms, err := strftime.Format("%H%M%S", t)
	if err != nil {
		hms = t.Format("150405")
	}
	centis := t.Nanosecond() / 1e7
	return fmt.Sprintf("%s.%02d", hms, centis)
}

// dateField renders a UTC instant as NMEA "DDMMYY".
func dateField(t time.Time) string {
	dmy, err := strftime.Format("%d%m%y", t)
	if err != nil {
		dmy = t.Format("020106")
	}
	return dmy
}

func joinFields(fields ...string) string {
	return strings.Join(fields, ",")
}

// GPRMC builds the Recommended Minimum sentence.
func GPRMC(t time.Time, lat, lon, sogKn, cogTrue, magVarDeg float64) string {
	magDir := byte('E')
	if magVarDeg < 0 {
		magDir = 'W'
	}
	body := joinFields(
		"GPRMC",
		timeField(t),
		"A",
		FormatLatitude(lat),
		FormatLongitude(lon),
		fmt.Sprintf("%.1f", sogKn),
		fmt.Sprintf("%.1f", cogTrue),
		dateField(t),
		fmt.Sprintf("%.1f", absf(magVarDeg)),
		string(magDir),
	)
	return Frame('$', body)
}

// GPGGA builds the Fix Data sentence.
func GPGGA(t time.Time, lat, lon float64, satsUsed int, hdop, altitudeM float64) string {
	body := joinFields(
		"GPGGA",
		timeField(t),
		FormatLatitude(lat),
		FormatLongitude(lon),
		"1",
		fmt.Sprintf("%02d", satsUsed),
		fmt.Sprintf("%.1f", hdop),
		fmt.Sprintf("%.1f", altitudeM),
		"M",
		"0.0",
		"M",
		"",
		"",
	)
	return Frame('$', body)
}

// GPVTG builds the Track Made Good and Ground Speed sentence. cogMagnetic
// may be NaN if there is no magnetic course available, in which case the
// field is emitted empty.
func GPVTG(cogTrue, cogMagnetic, sogKn float64) string {
	magField := ""
	if !isNaN(cogMagnetic) {
		magField = fmt.Sprintf("%.1f", cogMagnetic)
	}
	body := joinFields(
		"GPVTG",
		fmt.Sprintf("%.1f", cogTrue),
		"T",
		magField,
		"M",
		fmt.Sprintf("%.1f", sogKn),
		"N",
		fmt.Sprintf("%.1f", sogKn*1.852),
		"K",
		"A",
	)
	return Frame('$', body)
}

// GPGSA builds the GPS DOP and Active Satellites sentence. usedPRNs is
// truncated/padded to exactly 12 slots (first 12 of the "used" set).
func GPGSA(mode byte, fixType int, usedPRNs []int, pdop, hdop, vdop float64) string {
	slots := make([]string, 12)
	for i := range slots {
		if i < len(usedPRNs) {
			slots[i] = fmt.Sprintf("%02d", usedPRNs[i])
		} else {
			slots[i] = ""
		}
	}
	fields := []string{"GPGSA", string(mode), fmt.Sprintf("%d", fixType)}
	fields = append(fields, slots...)
	fields = append(fields,
		fmt.Sprintf("%.1f", pdop),
		fmt.Sprintf("%.1f", hdop),
		fmt.Sprintf("%.1f", vdop),
	)
	return Frame('$', joinFields(fields...))
}

// Satellite describes one satellite's GSV tuple.
type Satellite struct {
	PRN  int
	Elev int
	Az   int
	SNR  int
}

// GPGSV builds the satellites-in-view sentences, splitting sats into
// groups of four. Returns one frame per group (the short final
// group emits as many tuples as remain).
func GPGSV(sats []Satellite) []string {
	const perMsg = 4
	total := len(sats)
	groups := (total + perMsg - 1) / perMsg
	if groups == 0 {
		groups = 1
	}
	out := make([]string, 0, groups)
	for g := 0; g < groups; g++ {
		fields := []string{
			"GPGSV",
			fmt.Sprintf("%d", groups),
			fmt.Sprintf("%d", g+1),
			fmt.Sprintf("%02d", total),
		}
		start := g * perMsg
		end := start + perMsg
		if end > total {
			end = total
		}
		for _, s := range sats[start:end] {
			fields = append(fields,
				fmt.Sprintf("%02d", s.PRN),
				fmt.Sprintf("%02d", s.Elev),
				fmt.Sprintf("%03d", s.Az),
				fmt.Sprintf("%02d", s.SNR),
			)
		}
		out = append(out, Frame('$', joinFields(fields...)))
	}
	return out
}

// WIMWD builds the wind direction and speed sentence.
func WIMWD(twdTrue, twdMagnetic, twsKn float64) string {
	body := joinFields(
		"WIMWD",
		fmt.Sprintf("%.1f", twdTrue),
		"T",
		fmt.Sprintf("%.1f", twdMagnetic),
		"M",
		fmt.Sprintf("%.1f", twsKn),
		"N",
		fmt.Sprintf("%.1f", twsKn*0.514444),
		"M",
	)
	return Frame('$', body)
}

// WIMWVTrue builds the true-wind MWV sentence. twa is the (signed) true
// wind angle relative to the bow. WIMWV with reference 'T' intentionally
// carries a TWA, not a TWD: the field is signed relative to the bow,
// matching how chartplotters actually consume this sentence.
func WIMWVTrue(twa, twsKn float64) string {
	return wimwv(twa, "T", twsKn)
}

// WIMWVApparent builds the apparent-wind MWV sentence.
func WIMWVApparent(awa, awsKn float64) string {
	return wimwv(awa, "R", awsKn)
}

func wimwv(angle float64, reference string, speedKn float64) string {
	body := joinFields(
		"WIMWV",
		fmt.Sprintf("%.1f", absf(angle)),
		reference,
		fmt.Sprintf("%.1f", speedKn),
		"N",
		"A",
	)
	return Frame('$', body)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func isNaN(v float64) bool {
	return v != v
}
