package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/internal/batch"
	"github.com/discochess/squeeze/internal/progress"
)

var packCmd = &cobra.Command{
	Use:   "pack SRC -o OUT",
	Short: "Compress every file of a directory tree into a pack",
	Long: `Compress every regular file below SRC into OUT.

OUT receives one object per file under objects/ and a manifest.json with
the algorithm, sizes and checksum of each file. OUT may be a local
directory, s3://bucket/prefix or gs://bucket/prefix.

Examples:
  squeeze pack ./docs -o ./docs.pack
  squeeze pack ./logs -o s3://my-bucket/logs --workers 16 -a lzw`,
	Args: cobra.ExactArgs(1),
	RunE: runPack,
}

var unpackCmd = &cobra.Command{
	Use:   "unpack PACK -o OUT",
	Short: "Restore every file of a pack",
	Long: `Restore every file of PACK below the local directory OUT, checking
each one against the manifest.

Examples:
  squeeze unpack ./docs.pack -o ./docs
  squeeze unpack gs://my-bucket/logs -o ./logs`,
	Args: cobra.ExactArgs(1),
	RunE: runUnpack,
}

var (
	packOutput    string
	packWorkers   int
	packAlgorithm string
	unpackOutput  string
	unpackWorkers int
)

func init() {
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "pack location")
	packCmd.Flags().IntVar(&packWorkers, "workers", 0, "files compressed in parallel (default: GOMAXPROCS)")
	packCmd.Flags().StringVarP(&packAlgorithm, "algorithm", "a", "auto", "algorithm: auto, "+algorithmList())
	_ = packCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(packCmd)

	unpackCmd.Flags().StringVarP(&unpackOutput, "output", "o", "", "directory to restore into")
	unpackCmd.Flags().IntVar(&unpackWorkers, "workers", 0, "files restored in parallel (default: GOMAXPROCS)")
	_ = unpackCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(unpackCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	algo, err := squeeze.ParseAlgorithm(packAlgorithm)
	if err != nil {
		return err
	}

	out, err := parseLocation(packOutput).dir(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer out.Close()

	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	b := batch.New(engine,
		batch.WithAlgorithm(algo),
		batch.WithWorkers(packWorkers),
		batch.WithLogger(log.Named("batch")),
		batch.WithProgress(fileCounter(cmd, "packed")),
	)
	m, err := b.Pack(cmd.Context(), args[0], out)
	if err != nil {
		return err
	}

	orig, packed := m.TotalOriginal(), m.TotalCompressed()
	printf(cmd, "%s: %d files, %s -> %s (ratio %s)\n", packOutput, len(m.Entries),
		progress.FormatBytes(orig), progress.FormatBytes(packed), progress.FormatRatio(packed, orig))
	return nil
}

func runUnpack(cmd *cobra.Command, args []string) error {
	loc := parseLocation(args[0])
	if loc.kind == kindStdio {
		return fmt.Errorf("unpack needs a pack location, not stdin")
	}
	src, err := loc.dir(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer src.Close()

	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	b := batch.New(engine,
		batch.WithWorkers(unpackWorkers),
		batch.WithLogger(log.Named("batch")),
		batch.WithProgress(fileCounter(cmd, "restored")),
	)
	m, err := b.Unpack(cmd.Context(), src, unpackOutput)
	if err != nil {
		return err
	}
	printf(cmd, "%s: %d files restored, %s\n", unpackOutput, len(m.Entries), progress.FormatBytes(m.TotalOriginal()))
	return nil
}

// fileCounter returns a sink printing "verb n/total files" on stderr, or
// nil with --quiet.
func fileCounter(cmd *cobra.Command, verb string) progress.Sink {
	if quiet {
		return nil
	}
	w := cmd.ErrOrStderr()
	return progress.SinkFunc(func(done, total int64) {
		fmt.Fprintf(w, "\r%s %d/%d files", verb, done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	})
}
