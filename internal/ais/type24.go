package ais

import (
	"fmt"
	"math"
	"strings"
)

// charset is the ITU-R M.1371 6-bit AIS character table; a character's
// index in this string is its 6-bit encoded value.
const charset = "@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_ !\"#$%&'()*+,-./0123456789:;<=>?"

// encodeName upper-cases s, replaces any character outside the AIS
// charset with a space, truncates to 20 characters, and right-pads with
// '@' (index 0) to exactly 20.
func encodeName(s string) string {
	s = strings.ToUpper(s)
	if len(s) > 20 {
		s = s[:20]
	}
	out := make([]byte, 0, 20)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(charset, c) < 0 {
			c = ' '
		}
		out = append(out, c)
	}
	for len(out) < 20 {
		out = append(out, '@')
	}
	return string(out)
}

func (w *bitWriter) writeName(name string) {
	encoded := encodeName(name)
	for i := 0; i < 20; i++ {
		idx := strings.IndexByte(charset, encoded[i])
		w.writeUint(uint64(idx), 6)
	}
}

// decodeName reads 20 6-bit characters back into a trimmed string,
// dropping trailing '@' padding, used only by tests.
func decodeName(bits []bool, start int) string {
	out := make([]byte, 0, 20)
	for i := 0; i < 20; i++ {
		v := int(readUint(bits, start+i*6, 6))
		out = append(out, charset[v])
	}
	return strings.TrimRight(string(out), "@")
}

// Type24A holds the fields of a Static Data Report Part A.
type Type24A struct {
	MMSI int
	Name string
}

// Encode packs the Type 24 Part A fields into an AIVDM sentence.
func (m Type24A) Encode() string {
	w := &bitWriter{}
	w.writeUint(24, 6) // message id
	w.writeUint(0, 2)  // repeat indicator
	w.writeUint(uint64(m.MMSI), 30)
	w.writeUint(0, 2) // part number A
	w.writeName(m.Name)

	payload, fill := w.armor()
	return aivdm(payload, fill)
}

// DecodeType24A reverses Encode for test round-tripping.
func DecodeType24A(payload string, fill int) Type24A {
	bits := decodeBits(payload, fill)
	return Type24A{
		MMSI: int(readUint(bits, 8, 30)),
		Name: decodeName(bits, 40),
	}
}

// FleetStaticName builds the 20-character Type 24 Part A name for a
// fleet target: the base name truncated to fit, followed by a
// " <SOG1dp>/<COG3dig>" suffix (e.g. " 5.3/047"). If there isn't room
// for both the truncated name and the suffix, the suffix alone is used,
// truncated to 20 characters.
func FleetStaticName(baseName string, sogKn, cogDeg float64) string {
	suffix := formatSuffix(sogKn, cogDeg)
	room := 20 - len(suffix)
	if room < 1 {
		if len(suffix) > 20 {
			return suffix[:20]
		}
		return suffix
	}
	base := baseName
	if len(base) > room {
		base = base[:room]
	}
	return base + suffix
}

func formatSuffix(sogKn, cogDeg float64) string {
	cog := int(math.Round(cogDeg)) % 360
	if cog < 0 {
		cog += 360
	}
	return fmt.Sprintf(" %.1f/%03d", sogKn, cog)
}
