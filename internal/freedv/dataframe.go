package freedv

import "github.com/freedv-go/codec2/internal/crc16"

// BuildDataFrame assembles a raw-data burst payload: a one-byte source
// id, a one-byte sequence number, the caller's payload, and a trailing
// CRC-16/XMODEM.
func BuildDataFrame(source, seq byte, payload []byte) []byte {
	frame := make([]byte, 0, len(payload)+4)
	frame = append(frame, source, seq)
	frame = append(frame, payload...)
	return crc16.Append(frame)
}

// ParseDataFrame reverses BuildDataFrame. ok is false if framed is too
// short to contain the header and CRC; crcOK is false on a CrcMismatch
// condition (payload is still returned, never discarded, so a caller
// accepting corrupted frames can still use it).
func ParseDataFrame(framed []byte) (source, seq byte, payload []byte, crcOK, ok bool) {
	if len(framed) < 4 {
		return 0, 0, nil, false, false
	}
	crcOK = crc16.Verify(framed)
	n := len(framed)
	source, seq = framed[0], framed[1]
	payload = framed[2 : n-2]
	return source, seq, payload, crcOK, true
}
