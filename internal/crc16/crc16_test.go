package crc16

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestChecksumKnownVector(t *testing.T) {
	// "123456789" is the standard CRC self-check string; XMODEM variant
	// (poly 0x1021, init 0xFFFF, no reflect/xorout) yields 0x29B1.
	assert.Equal(t, uint16(0x29B1), Checksum([]byte("123456789")))
}

func TestAppendThenVerify(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 2, 64).Draw(t, "payload")
		framed := Append(append([]byte(nil), payload...))
		assert.True(t, Verify(framed))
		assert.Len(t, framed, len(payload)+2)
	})
}

func TestVerifyDetectsCorruption(t *testing.T) {
	framed := Append([]byte{1, 2, 3, 4})
	framed[0] ^= 0xFF
	assert.False(t, Verify(framed))
}

func TestVerifyShortInput(t *testing.T) {
	assert.False(t, Verify([]byte{0x01}))
	assert.False(t, Verify(nil))
}
