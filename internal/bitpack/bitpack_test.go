package bitpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPackUnpackIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nBits := rapid.IntRange(1, 20).Draw(t, "nBits")
		value := rapid.Uint32Range(0, uint32(1)<<uint(nBits)-1).Draw(t, "value")

		w := NewWriter(nBits)
		w.Pack(value, nBits)

		r := NewReader(w.Bytes())
		got := r.Unpack(nBits)
		assert.Equal(t, value, got)
	})
}

func TestPackSequenceConcatenatesInOrder(t *testing.T) {
	w := NewWriter(8)
	w.Pack(0b101, 3)
	w.Pack(0b01, 2)
	w.Pack(0b111, 3)
	assert.Equal(t, []byte{0b10101111}, w.Bytes())

	r := NewReader(w.Bytes())
	assert.Equal(t, uint32(0b101), r.Unpack(3))
	assert.Equal(t, uint32(0b01), r.Unpack(2))
	assert.Equal(t, uint32(0b111), r.Unpack(3))
}

func TestGrayRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint32Range(0, 1<<16-1).Draw(t, "v")
		assert.Equal(t, v, GrayDecode(GrayEncode(v)))
	})
}

func TestPackNaturalOrGrayRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nBits := rapid.IntRange(1, 10).Draw(t, "nBits")
		value := rapid.Uint32Range(0, uint32(1)<<uint(nBits)-1).Draw(t, "value")
		gray := rapid.Bool().Draw(t, "gray")

		w := NewWriter(nBits)
		w.PackNaturalOrGray(value, nBits, gray)
		r := NewReader(w.Bytes())
		got := r.UnpackNaturalOrGray(nBits, gray)
		assert.Equal(t, value, got)
	})
}

func TestFreeFunctionPackUnpack(t *testing.T) {
	var buf []byte
	var off int
	buf, off = Pack(buf, off, 5, 3)
	buf, off = Pack(buf, off, 200, 8)

	v1, off2 := Unpack(buf, 0, 3)
	v2, _ := Unpack(buf, off2, 8)
	assert.Equal(t, uint32(5), v1)
	assert.Equal(t, uint32(200), v2)
	assert.Equal(t, 11, off)
}
