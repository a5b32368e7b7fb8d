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

var compressCmd = &cobra.Command{
	Use:   "compress IN [OUT]",
	Short: "Compress a file",
	Long: `Compress IN and write the result to OUT.

OUT defaults to IN with the algorithm's extension appended (.rle, .huf,
.lzw, .zst, .gz, .s2 or .raw), or stdout when IN is "-".

Examples:
  squeeze compress notes.txt
  squeeze compress -a lzw notes.txt notes.lzw
  cat notes.txt | squeeze compress -a huffman - - > notes.huf`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCompress,
}

var compressAlgorithm string

func init() {
	compressCmd.Flags().StringVarP(&compressAlgorithm, "algorithm", "a", "auto", "algorithm: auto, "+algorithmList())
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	algo, err := squeeze.ParseAlgorithm(compressAlgorithm)
	if err != nil {
		return err
	}

	data, err := readLocation(cmd, args[0])
	if err != nil {
		return err
	}

	tr := newTracker(int64(len(data)))
	engine, err := newEngine(progressSink(cmd, "compress", tr))
	if err != nil {
		return err
	}
	defer engine.Close()

	enc, st, err := engine.Compress(cmd.Context(), algo, data)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", args[0], err)
	}

	out, err := compressOutput(engine, args, st.Algorithm)
	if err != nil {
		return err
	}
	if err := writeLocation(cmd, out, enc); err != nil {
		return err
	}

	if tr != nil {
		log.Debug(tr.Format())
	}
	log.Info("compressed",
		zap.String("input", args[0]),
		zap.String("output", out),
		zap.String("algorithm", string(st.Algorithm)),
		zap.Int64("originalBytes", st.OriginalSize),
		zap.Int64("encodedBytes", st.EncodedSize),
		zap.Duration("elapsed", st.Elapsed),
	)
	printf(cmd, "%s: %s -> %s (%.1f%% saved) with %s in %s\n",
		args[0], progress.FormatBytes(st.OriginalSize), progress.FormatBytes(st.EncodedSize),
		st.SpaceSavings(), st.Algorithm, st.Elapsed.Round(time.Microsecond))
	return nil
}

func compressOutput(engine *squeeze.Engine, args []string, algo squeeze.Algorithm) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	if args[0] == "-" {
		return "-", nil
	}
	ext, err := engine.Extension(algo)
	if err != nil {
		return "", err
	}
	return args[0] + "." + ext, nil
}

// algorithmList returns the built-in algorithm names for flag help.
func algorithmList() string {
	names := []string{
		string(squeeze.RLE), string(squeeze.Huffman), string(squeeze.LZW),
		string(squeeze.Zstd), string(squeeze.Gzip), string(squeeze.S2), string(squeeze.Store),
	}
	return strings.Join(names, ", ")
}
