// Command c2dec decodes a packed codec2 bitstream back into raw 16-bit
// signed-PCM speech.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	codec2 "github.com/freedv-go/codec2"
	"github.com/freedv-go/codec2/internal/cliutil"
)

func main() {
	quiet := pflag.BoolP("quiet", "q", false, "Suppress the frame-count progress line.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: c2dec Mode InputBitFile OutputRawFile\n\n")
		fmt.Fprintf(os.Stderr, "Mode is one of: 3200 2400 1600 1400 1300 1200 700C 450\n")
		fmt.Fprintf(os.Stderr, "InputBitFile and OutputRawFile may be - for stdin/stdout.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help || pflag.NArg() != 3 {
		pflag.Usage()
		os.Exit(1)
	}

	mode, ok := cliutil.ModeByName(pflag.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "c2dec: unknown mode %q\n", pflag.Arg(0))
		os.Exit(1)
	}

	in, err := cliutil.OpenInput(pflag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, "c2dec:", err)
		os.Exit(1)
	}
	defer in.Close()

	out, err := cliutil.OpenOutput(pflag.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, "c2dec:", err)
		os.Exit(1)
	}
	defer out.Close()

	dec, err := codec2.NewDecoder(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "c2dec:", err)
		os.Exit(1)
	}
	params, _ := codec2.Params(mode)

	frameBuf := make([]byte, params.BytesPerFrame)
	frames := 0
	for {
		if _, err := io.ReadFull(in, frameBuf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			fmt.Fprintln(os.Stderr, "c2dec:", err)
			os.Exit(1)
		}
		pcm := dec.Decode(frameBuf, false)
		if err := cliutil.WritePCM(out, pcm); err != nil {
			fmt.Fprintln(os.Stderr, "c2dec:", err)
			os.Exit(1)
		}
		frames++
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "c2dec: decoded %d frames\n", frames)
	}
}
