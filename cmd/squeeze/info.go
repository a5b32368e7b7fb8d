package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/internal/codec/huffmancodec"
	"github.com/discochess/squeeze/internal/codec/lzwcodec"
	"github.com/discochess/squeeze/internal/codec/rlecodec"
	"github.com/discochess/squeeze/internal/progress"
)

var infoCmd = &cobra.Command{
	Use:   "info PATH",
	Short: "Show details about a compressed file",
	Long: `Display the size of PATH, its extension and the algorithm it maps to,
and the container header of Huffman, LZW and run-length files.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	loc := parseLocation(args[0])
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Path:       %s\n", args[0])
	if loc.kind == kindLocal {
		fi, err := os.Stat(loc.raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Modified:   %s\n", fi.ModTime().Format(time.RFC3339))
	}

	data, err := readLocation(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Size:       %s (%d bytes)\n", progress.FormatBytes(int64(len(data))), len(data))

	ext := loc.ext()
	fmt.Fprintf(w, "Extension:  %s\n", orNone(ext))

	algo, err := squeeze.AlgorithmForExtension(ext)
	if err != nil {
		fmt.Fprintln(w, "Algorithm:  unknown")
		return nil
	}
	fmt.Fprintf(w, "Algorithm:  %s\n", algo)
	return writeHeader(w, algo, data)
}

func writeHeader(w io.Writer, algo squeeze.Algorithm, data []byte) error {
	switch algo {
	case squeeze.Huffman:
		h, err := huffmancodec.Inspect(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Tree:       %d bytes, %d symbols\n", h.TreeLen, h.Leaves)
		fmt.Fprintf(w, "Payload:    %d bits (%d padding)\n", h.PayloadBits, h.Padding)
	case squeeze.LZW:
		h, err := lzwcodec.Inspect(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Codes:      %d (max %d)\n", h.Count, h.MaxCode)
		fmt.Fprintf(w, "Dictionary: %d entries\n", h.DictSize)
	case squeeze.RLE:
		h, err := rlecodec.Inspect(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Original:   %s (%d bytes)\n", progress.FormatBytes(int64(h.OriginalSize)), h.OriginalSize)
		fmt.Fprintf(w, "Runs:       %d\n", h.Runs)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
