// Package nmea builds NMEA 0183 sentence text: coordinate field
// formatting, the XOR checksum, and the GPRMC/GPGGA/GPVTG/GPGSA/GPGSV and
// wind sentence encoders.
package nmea

import "fmt"

// Checksum returns the NMEA XOR checksum of body, the bytes strictly
// between the leading framing character ('$' or '!') and the '*'
// delimiter.
func Checksum(body string) byte {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return cs
}

// ChecksumHex renders a checksum as two uppercase hex digits.
func ChecksumHex(body string) string {
	return fmt.Sprintf("%02X", Checksum(body))
}

// Frame wraps a sentence body with its leading character, checksum and
// trailing CRLF: "$<body>*<CS>\r\n".
func Frame(lead byte, body string) string {
	return fmt.Sprintf("%c%s*%s\r\n", lead, body, ChecksumHex(body))
}
