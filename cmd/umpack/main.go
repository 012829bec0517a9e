// Command umpack packs the patterns of an extended module (.xm) into the
// packed module container, or inspects a packed module.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/arloliu/umpack/format"
	"github.com/arloliu/umpack/pack"
	"github.com/arloliu/umpack/stream"
	"github.com/arloliu/umpack/xm"
)

type options struct {
	compression string
	passes      string
	noVerify    bool
	noShortGaps bool
	bigEndian   bool
	verbose     bool
	quiet       bool
	decode      bool
	cpuProfile  string
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "umpack - tracker module event-stream packer")
	fmt.Fprintln(out, "Usage: umpack [flags] in.xm out.ump")
	fmt.Fprintln(out, "       umpack -d in.ump")
	flag.PrintDefaults()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opt options
	flag.StringVar(&opt.compression, "c", "none", "payload compression: none, zstd, s2 or lz4")
	flag.StringVar(&opt.passes, "passes", "rle,dictionary,slices", "comma separated compression passes")
	flag.BoolVar(&opt.noVerify, "no-verify", false, "skip decoding every channel after packing")
	flag.BoolVar(&opt.noShortGaps, "no-short-gaps", false, "disable short-gap symbols")
	flag.BoolVar(&opt.bigEndian, "be", false, "write a big-endian header and channel index")
	flag.BoolVar(&opt.verbose, "v", false, "log compression passes")
	flag.BoolVar(&opt.quiet, "q", false, "quiet mode")
	flag.BoolVar(&opt.decode, "d", false, "unpack and print per-channel event counts")
	flag.StringVar(&opt.cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.Usage = usage
	flag.Parse()

	if opt.cpuProfile != "" {
		f, err := os.Create(opt.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile %q: %w", opt.cpuProfile, err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if opt.decode {
		if flag.NArg() != 1 {
			flag.Usage()
			return errors.New("-d takes one packed module")
		}

		return inspect(flag.Arg(0))
	}

	if flag.NArg() != 2 {
		flag.Usage()
		return errors.New("expected an input and an output file")
	}

	return packFile(flag.Arg(0), flag.Arg(1), opt)
}

func encoderOptions(opt options) ([]pack.EncoderOption, error) {
	comp, err := format.ParseCompressionType(opt.compression)
	if err != nil {
		return nil, err
	}

	passes, err := parsePasses(opt.passes)
	if err != nil {
		return nil, err
	}

	opts := []pack.EncoderOption{
		pack.WithCompression(comp),
		pack.WithPasses(passes),
		pack.WithShortGaps(!opt.noShortGaps),
		pack.WithVerify(!opt.noVerify),
	}
	if opt.bigEndian {
		opts = append(opts, pack.WithBigEndian())
	}
	if opt.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, pack.WithLogger(logger))
	}

	return opts, nil
}

func parsePasses(s string) (stream.Pass, error) {
	var passes stream.Pass
	for _, name := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "rle":
			passes |= stream.PassRLE
		case "dictionary", "dict":
			passes |= stream.PassDictionary
		case "slices":
			passes |= stream.PassSlices
		case "all":
			passes |= stream.PassAll
		default:
			return 0, fmt.Errorf("unknown pass %q", name)
		}
	}

	return passes, nil
}

func packFile(inFilename, outFilename string, opt options) error {
	t0 := time.Now()

	opts, err := encoderOptions(opt)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inFilename)
	if err != nil {
		return err
	}

	s, err := xm.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", inFilename, err)
	}

	enc, err := pack.NewEncoder(opts...)
	if err != nil {
		return err
	}

	packed, err := enc.Encode(s)
	if err != nil {
		return fmt.Errorf("%s: %w", inFilename, err)
	}

	if err := os.WriteFile(outFilename, packed, 0o644); err != nil { //nolint:gosec
		return err
	}

	if opt.quiet {
		return nil
	}

	fmt.Printf("%-4s %8s %8s %8s %6s %6s\n", "ch", "events", "raw", "packed", "dict", "slices")
	for _, st := range enc.Stats() {
		fmt.Printf("%-4d %8d %8d %8d %6d %6d\n",
			st.Channel, st.Events, st.RawSize, st.BlockSize, st.DictionaryEntries, st.Slices)
	}

	ps := enc.PayloadStats()
	fmt.Printf("payload: %d bytes, %s: %d bytes (%.1f%% saved)\n",
		ps.OriginalSize, ps.Algorithm, ps.CompressedSize, ps.SpaceSavings())
	fmt.Printf("%s: %d bytes -> %s: %d bytes\n", inFilename, len(data), outFilename, len(packed))
	fmt.Printf("elapsed: %s\n", time.Since(t0))

	return nil
}

func inspect(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	dec, err := pack.NewDecoder(data)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	h := dec.Header()
	fmt.Printf("channels: %d, compression: %s, short gaps: %t, restart: position %d row %d\n",
		h.ChannelCount, h.Flag.Compression(), h.Flag.HasShortGaps(), h.RestartPosition, h.RestartRow)
	fmt.Printf("tempo: %d, bpm: %d\n", h.Tempo, h.BPM)

	fmt.Printf("%-4s %8s %8s %6s %6s\n", "ch", "events", "symbols", "dict", "slices")
	for ch := range dec.NumChannels() {
		st, err := dec.Stream(ch)
		if err != nil {
			return err
		}

		rows, err := st.Expand()
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}

		fmt.Printf("%-4d %8d %8d %6d %6d\n", ch, len(rows), len(st.Symbols), len(st.RowDict), len(st.Slices))
	}

	return nil
}
