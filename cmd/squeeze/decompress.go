package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/internal/progress"
)

var decompressCmd = &cobra.Command{
	Use:   "decompress IN [OUT]",
	Short: "Decompress a file",
	Long: `Decompress IN and write the result to OUT.

The algorithm is taken from IN's extension unless --algorithm is given.
OUT defaults to IN without that extension, or stdout when IN is "-".

Examples:
  squeeze decompress notes.txt.huf
  squeeze decompress -a lzw payload.bin payload.out
  squeeze decompress s3://my-bucket/notes.txt.lzw notes.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDecompress,
}

var decompressAlgorithm string

func init() {
	decompressCmd.Flags().StringVarP(&decompressAlgorithm, "algorithm", "a", "", "algorithm (default from extension): "+algorithmList())
	rootCmd.AddCommand(decompressCmd)
}

func runDecompress(cmd *cobra.Command, args []string) error {
	in := parseLocation(args[0])

	algo, err := decompressAlgorithmFor(in)
	if err != nil {
		return err
	}
	out, err := decompressOutput(args, in)
	if err != nil {
		return err
	}

	data, err := readLocation(cmd, args[0])
	if err != nil {
		return err
	}

	tr := newTracker(int64(len(data)))
	engine, err := newEngine(progressSink(cmd, "decompress", tr))
	if err != nil {
		return err
	}
	defer engine.Close()

	dec, st, err := engine.Decompress(cmd.Context(), algo, data)
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", args[0], err)
	}
	if err := writeLocation(cmd, out, dec); err != nil {
		return err
	}

	if tr != nil {
		log.Debug(tr.Format())
	}
	log.Info("decompressed",
		zap.String("input", args[0]),
		zap.String("output", out),
		zap.String("algorithm", string(st.Algorithm)),
		zap.Int64("originalBytes", st.OriginalSize),
		zap.Duration("elapsed", st.Elapsed),
	)
	printf(cmd, "%s: %s -> %s with %s in %s\n",
		args[0], progress.FormatBytes(st.EncodedSize), progress.FormatBytes(st.OriginalSize),
		st.Algorithm, st.Elapsed.Round(time.Microsecond))
	return nil
}

func decompressAlgorithmFor(in location) (squeeze.Algorithm, error) {
	if decompressAlgorithm != "" {
		algo, err := squeeze.ParseAlgorithm(decompressAlgorithm)
		if err != nil {
			return "", err
		}
		if algo == squeeze.Auto {
			return "", fmt.Errorf("%w: decompression needs an explicit algorithm", squeeze.ErrUnknownAlgorithm)
		}
		return algo, nil
	}
	algo, err := squeeze.AlgorithmForExtension(in.ext())
	if err != nil {
		return "", fmt.Errorf("%w; use --algorithm", err)
	}
	return algo, nil
}

func decompressOutput(args []string, in location) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	if in.kind == kindStdio {
		return "-", nil
	}
	if in.kind == kindHTTP {
		return "", fmt.Errorf("OUT is required when reading from %s", args[0])
	}
	ext := in.ext()
	if _, err := squeeze.AlgorithmForExtension(ext); ext == "" || err != nil {
		return "", fmt.Errorf("cannot derive OUT from %s: no known extension", args[0])
	}
	return strings.TrimSuffix(args[0], ext), nil
}
