package ais

import "math"

// Type18 holds the fields of a Class B Standard Position Report.
type Type18 struct {
	MMSI         int
	LatDeg       float64
	LonDeg       float64
	SOGKn        float64
	COGDeg       float64
	HeadingDeg   float64
	TimestampSec int
}

// Encode packs the Type 18 fields into an AIVDM sentence.
func (m Type18) Encode() string {
	w := &bitWriter{}
	w.writeUint(18, 6)            // message id
	w.writeUint(0, 2)             // repeat indicator
	w.writeUint(uint64(m.MMSI), 30)
	w.writeUint(0, 8) // reserved

	sogTenths := int(math.Round(m.SOGKn * 10))
	if sogTenths > 1022 {
		sogTenths = 1022
	}
	w.writeUint(uint64(sogTenths), 10)

	w.writeUint(0, 1) // position accuracy

	lonI := int64(math.Round(m.LonDeg * 600000))
	w.writeInt(lonI, 28)

	latI := int64(math.Round(m.LatDeg * 600000))
	w.writeInt(latI, 27)

	cog := math.Mod(m.COGDeg, 360)
	if cog < 0 {
		cog += 360
	}
	cogTenths := int(math.Round(cog * 10))
	if cogTenths >= 3600 {
		cogTenths = 0
	}
	w.writeUint(uint64(cogTenths), 12)

	hdg := int(math.Round(m.HeadingDeg)) % 360
	if hdg < 0 {
		hdg += 360
	}
	if hdg > 359 {
		hdg = 511
	}
	w.writeUint(uint64(hdg), 9)

	ts := m.TimestampSec
	if ts < 0 {
		ts = 0
	}
	if ts > 59 {
		ts = 59
	}
	w.writeUint(uint64(ts), 6)

	w.writeUint(0, 2) // reserved
	for i := 0; i < 7; i++ {
		w.writeUint(0, 1) // regional/flags, all zero
	}
	w.writeUint(0, 1)  // comm state selector flag (SOTDMA), always zero here
	w.writeUint(0, 19) // comm state

	payload, fill := w.armor()
	return aivdm(payload, fill)
}

// DecodeType18 reverses Encode for test round-tripping.
func DecodeType18(payload string, fill int) Type18 {
	bits := decodeBits(payload, fill)
	return Type18{
		MMSI:         int(readUint(bits, 8, 30)),
		SOGKn:        float64(readUint(bits, 46, 10)) / 10,
		LonDeg:       float64(readInt(bits, 57, 28)) / 600000,
		LatDeg:       float64(readInt(bits, 85, 27)) / 600000,
		COGDeg:       float64(readUint(bits, 112, 12)) / 10,
		HeadingDeg:   float64(readUint(bits, 124, 9)),
		TimestampSec: int(readUint(bits, 133, 6)),
	}
}
