// Command c2enc encodes raw 16-bit signed-PCM speech into a packed codec2
// bitstream, one mode's frame size at a time.
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
		fmt.Fprintf(os.Stderr, "Usage: c2enc Mode InputRawFile OutputBitFile\n\n")
		fmt.Fprintf(os.Stderr, "Mode is one of: 3200 2400 1600 1400 1300 1200 700C 450\n")
		fmt.Fprintf(os.Stderr, "InputRawFile and OutputBitFile may be - for stdin/stdout.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help || pflag.NArg() != 3 {
		pflag.Usage()
		os.Exit(1)
	}

	mode, ok := cliutil.ModeByName(pflag.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "c2enc: unknown mode %q\n", pflag.Arg(0))
		os.Exit(1)
	}

	in, err := cliutil.OpenInput(pflag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, "c2enc:", err)
		os.Exit(1)
	}
	defer in.Close()

	out, err := cliutil.OpenOutput(pflag.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, "c2enc:", err)
		os.Exit(1)
	}
	defer out.Close()

	enc, err := codec2.NewEncoder(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "c2enc:", err)
		os.Exit(1)
	}

	pcm := make([]int16, enc.SpeechSamples())
	frames := 0
	for {
		if err := cliutil.ReadPCM(in, pcm); err != nil {
			if err == io.EOF {
				break
			}
			fmt.Fprintln(os.Stderr, "c2enc:", err)
			os.Exit(1)
		}
		frame := enc.Encode(pcm)
		if _, err := out.Write(frame); err != nil {
			fmt.Fprintln(os.Stderr, "c2enc:", err)
			os.Exit(1)
		}
		frames++
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "c2enc: encoded %d frames\n", frames)
	}
}
