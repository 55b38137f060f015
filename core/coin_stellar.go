package core

import "encoding/base32"

// stellarDecoder prepends the ed25519 public-key version byte (0x30),
// appends a CRC16/XMODEM checksum over the full payload, and base32
// (RFC 4648, unpadded) encodes the result. Grounded on original_source's
// stellar.rs.
type stellarDecoder struct{}

func (stellarDecoder) decode(data []byte) (string, error) {
	full := make([]byte, 0, 1+len(data)+2)
	full = append(full, 0x30)
	full = append(full, data...)

	checksum := crc16XModem(full)
	full = append(full, byte(checksum&0xff), byte((checksum>>8)&0xff))

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(full), nil
}

// crc16XModem computes the CRC-16/XMODEM checksum (poly 0x1021, init 0,
// no reflection). No library in the retrieval pack provides this
// variant, so it is hand-rolled from the well-known 16-line reference
// algorithm rather than wired to an unrelated dependency.
func crc16XModem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
