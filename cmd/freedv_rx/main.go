// Command freedv_rx reads a modem sample stream (as produced by
// freedv_tx), demodulates it through a FreeDV session, and writes the
// reconstructed raw 16-bit PCM speech to its output.
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
	spareBits := pflag.Int("spare-bits", 8, "Extra modem-frame bits beyond the codec2 payload, for the text side channel. Must match freedv_tx.")
	testframes := pflag.Bool("testframes", false, "Expect the deterministic BER test pattern instead of decoding to speech.")
	verbose := pflag.IntP("verbose", "v", 0, "Verbosity: 0, 1, or 2.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: freedv_rx Mode InputModemSampleFile OutputRawFile\n\n")
		fmt.Fprintf(os.Stderr, "Mode is one of: 3200 2400 1600 1400 1300 1200 700C 450\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help || pflag.NArg() != 3 {
		pflag.Usage()
		os.Exit(1)
	}

	mode, ok := cliutil.ModeByName(pflag.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "freedv_rx: unknown mode %q\n", pflag.Arg(0))
		os.Exit(1)
	}

	in, err := cliutil.OpenInput(pflag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, "freedv_rx:", err)
		os.Exit(1)
	}
	defer in.Close()

	out, err := cliutil.OpenOutput(pflag.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, "freedv_rx:", err)
		os.Exit(1)
	}
	defer out.Close()

	cfg := codec2.NewConfig(
		codec2.WithMode(mode),
		codec2.WithTestframes(*testframes),
		codec2.WithVerbose(*verbose),
	)

	params, _ := codec2.Params(mode)
	modem := codec2.NewLoopbackModem(params.BitsPerFrame + *spareBits)

	sess, err := codec2.Open(cfg, modem)
	if err != nil {
		fmt.Fprintln(os.Stderr, "freedv_rx:", err)
		os.Exit(1)
	}
	sess.OnReliableText(func(s string) {
		fmt.Fprintf(os.Stderr, "freedv_rx: reliable text: %q\n", s)
	})

	frames := 0
	for {
		samples := make([]int16, sess.Nin())
		if err := cliutil.ReadPCM(in, samples); err != nil {
			if err == io.EOF {
				break
			}
			fmt.Fprintln(os.Stderr, "freedv_rx:", err)
			os.Exit(1)
		}
		pcm, status := sess.Rx(samples)
		if !status.Has(codec2.StatusSync) {
			continue
		}
		if pcm != nil {
			if err := cliutil.WritePCM(out, pcm); err != nil {
				fmt.Fprintln(os.Stderr, "freedv_rx:", err)
				os.Exit(1)
			}
		}
		frames++
	}
	if *testframes {
		stats := sess.TestframeStats()
		fmt.Fprintf(os.Stderr, "freedv_rx: locked=%v bits=%d errs=%d\n", sess.TestframeLocked(), stats.Tbits, stats.Terrs)
	}
	fmt.Fprintf(os.Stderr, "freedv_rx: received %d frames\n", frames)
}
