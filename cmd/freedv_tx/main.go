// Command freedv_tx reads raw 16-bit PCM speech, runs it through a FreeDV
// session, and writes the resulting modem sample stream (also raw 16-bit,
// little-endian) to its output. Paired with freedv_rx over a pipe or file,
// it exercises the full Session Tx/Rx path end to end using the in-module
// LoopbackModem in place of a real wire modem.
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
	spareBits := pflag.Int("spare-bits", 8, "Extra modem-frame bits beyond the codec2 payload, for the text side channel. Must match freedv_rx.")
	testframes := pflag.Bool("testframes", false, "Transmit the deterministic BER test pattern instead of encoding input.")
	text := pflag.String("text", "", "Fixed string to repeat over the reliable-text side channel.")
	txAmp := pflag.Float64("tx-amp", 1.0, "Linear TX gain.")
	clip := pflag.Bool("clip", false, "Clip TX magnitude to reduce PAPR.")
	verbose := pflag.IntP("verbose", "v", 0, "Verbosity: 0, 1, or 2.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: freedv_tx Mode InputRawFile OutputModemSampleFile\n\n")
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
		fmt.Fprintf(os.Stderr, "freedv_tx: unknown mode %q\n", pflag.Arg(0))
		os.Exit(1)
	}

	in, err := cliutil.OpenInput(pflag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, "freedv_tx:", err)
		os.Exit(1)
	}
	defer in.Close()

	out, err := cliutil.OpenOutput(pflag.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, "freedv_tx:", err)
		os.Exit(1)
	}
	defer out.Close()

	cfg := codec2.NewConfig(
		codec2.WithMode(mode),
		codec2.WithTestframes(*testframes),
		codec2.WithTXAmp(*txAmp),
		codec2.WithClip(*clip),
		codec2.WithVerbose(*verbose),
	)

	params, _ := codec2.Params(mode)
	modem := codec2.NewLoopbackModem(params.BitsPerFrame + *spareBits)

	sess, err := codec2.Open(cfg, modem)
	if err != nil {
		fmt.Fprintln(os.Stderr, "freedv_tx:", err)
		os.Exit(1)
	}
	if *text != "" {
		sess.SetReliableString(*text)
	}

	pcm := make([]int16, sess.SpeechSamples())
	frames := 0
	for {
		if err := cliutil.ReadPCM(in, pcm); err != nil {
			if err == io.EOF {
				break
			}
			fmt.Fprintln(os.Stderr, "freedv_tx:", err)
			os.Exit(1)
		}
		samples := sess.Tx(pcm)
		if err := cliutil.WritePCM(out, samples); err != nil {
			fmt.Fprintln(os.Stderr, "freedv_tx:", err)
			os.Exit(1)
		}
		frames++
	}
	fmt.Fprintf(os.Stderr, "freedv_tx: sent %d frames\n", frames)
}
