package nmea

import (
	"fmt"
	"math"
)

// FormatLatitude renders a decimal latitude as NMEA "DDMM.mmmm,H"
// (D = floor(|lat|), M = (|lat|-D)*60 to 4 decimals, H in {N,S}).
func FormatLatitude(lat float64) string {
	hemi := byte('N')
	if lat < 0 {
		hemi = 'S'
	}
	a := math.Abs(lat)
	d := math.Floor(a)
	m := (a - d) * 60
	return fmt.Sprintf("%02d%07.4f,%c", int(d), m, hemi)
}

// FormatLongitude renders a decimal longitude as NMEA "DDDMM.mmmm,H"
// (H in {E,W}).
func FormatLongitude(lon float64) string {
	hemi := byte('E')
	if lon < 0 {
		hemi = 'W'
	}
	a := math.Abs(lon)
	d := math.Floor(a)
	m := (a - d) * 60
	return fmt.Sprintf("%03d%07.4f,%c", int(d), m, hemi)
}
