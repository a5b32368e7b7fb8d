package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/internal/batch"
	"github.com/discochess/squeeze/internal/progress"
)

var verifyCmd = &cobra.Command{
	Use:   "verify IN",
	Short: "Verify that a file round-trips or that a pack is intact",
	Long: `Verify a file or a pack.

For a file, IN is compressed and decompressed with each algorithm and the
result is compared with the original.

For a pack (a local directory, or an s3://, gs:// or http(s):// location
ending in "/"), every entry is decoded and checked against the size and
checksum recorded in its manifest.

Examples:
  squeeze verify notes.txt
  squeeze verify -a huffman -a lzw notes.txt
  squeeze verify ./docs.pack`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var verifyAlgorithms []string

func init() {
	verifyCmd.Flags().StringSliceVarP(&verifyAlgorithms, "algorithm", "a", nil, "algorithms to check (default: all)")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	if isPack(args[0]) {
		return verifyPack(cmd, args[0])
	}
	return verifyFile(cmd, args[0])
}

func isPack(arg string) bool {
	loc := parseLocation(arg)
	switch loc.kind {
	case kindLocal:
		fi, err := os.Stat(loc.raw)
		return err == nil && fi.IsDir()
	case kindStdio:
		return false
	}
	return arg[len(arg)-1] == '/'
}

func verifyPack(cmd *cobra.Command, arg string) error {
	st, err := parseLocation(arg).dir(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	b := batch.New(engine, batch.WithLogger(log.Named("batch")), batch.WithProgress(fileCounter(cmd, "verified")))
	m, err := b.Verify(cmd.Context(), st)
	if err != nil {
		return err
	}
	printf(cmd, "%s: %d files ok, %s\n", arg, len(m.Entries), progress.FormatBytes(m.TotalOriginal()))
	return nil
}

func verifyFile(cmd *cobra.Command, arg string) error {
	data, err := readLocation(cmd, arg)
	if err != nil {
		return err
	}

	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	algos := engine.Algorithms()
	if len(verifyAlgorithms) > 0 {
		algos = algos[:0]
		for _, name := range verifyAlgorithms {
			algo, err := squeeze.ParseAlgorithm(name)
			if err != nil {
				return err
			}
			algos = append(algos, algo)
		}
	}

	w := cmd.OutOrStdout()
	var errs []error
	for _, algo := range algos {
		enc, st, err := engine.Compress(cmd.Context(), algo, data)
		if err != nil {
			errs = append(errs, err)
			fmt.Fprintf(w, "FAIL %-8s %v\n", algo, err)
			continue
		}
		dec, _, err := engine.Decompress(cmd.Context(), st.Algorithm, enc)
		if err == nil && !bytes.Equal(dec, data) {
			err = fmt.Errorf("%s: round trip differs from input", st.Algorithm)
		}
		if err != nil {
			errs = append(errs, err)
			fmt.Fprintf(w, "FAIL %-8s %v\n", st.Algorithm, err)
			continue
		}
		fmt.Fprintf(w, "ok   %-8s %s -> %s\n", st.Algorithm,
			progress.FormatBytes(st.OriginalSize), progress.FormatBytes(st.EncodedSize))
	}
	return errors.Join(errs...)
}
