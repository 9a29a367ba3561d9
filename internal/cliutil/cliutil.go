// Package cliutil collects the small amount of plumbing shared by the
// cmd/c2enc, cmd/c2dec, cmd/freedv_tx and cmd/freedv_rx demo binaries:
// mode-name parsing, stdin/stdout-aware file opening, and raw 16-bit PCM
// framing.
package cliutil

import (
	"encoding/binary"
	"io"
	"os"

	codec2 "github.com/freedv-go/codec2"
)

// ModeByName parses one of the CLI mode strings ("3200", "2400", "1600",
// "1400", "1300", "1200", "700C", "450") into a codec2.Mode.
func ModeByName(name string) (codec2.Mode, bool) {
	switch name {
	case "3200":
		return codec2.Mode3200, true
	case "2400":
		return codec2.Mode2400, true
	case "1600":
		return codec2.Mode1600, true
	case "1400":
		return codec2.Mode1400, true
	case "1300":
		return codec2.Mode1300, true
	case "1200":
		return codec2.Mode1200, true
	case "700C":
		return codec2.Mode700C, true
	case "450":
		return codec2.Mode450, true
	default:
		return 0, false
	}
}

// OpenInput opens path for reading, or stdin if path is "-".
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// OpenOutput opens path for writing (truncating), or stdout if path is "-".
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// ReadPCM fills pcm from r as little-endian int16 samples. It returns
// io.EOF only on a clean end of stream with no partial sample read.
func ReadPCM(r io.Reader, pcm []int16) error {
	buf := make([]byte, len(pcm)*2)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return io.EOF
		}
		return err
	}
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	return nil
}

// WritePCM writes pcm to w as little-endian int16 samples.
func WritePCM(w io.Writer, pcm []int16) error {
	buf := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	_, err := w.Write(buf)
	return err
}
