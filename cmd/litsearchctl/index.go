package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/corpus"
)

var createIndexCmd = &cobra.Command{
	Use:   "create-index",
	Short: "Build the index from a sample of the JSON corpus",
	Long: `Drop and recreate the search index, then embed, annotate and store a
sample of the corpus drawn without replacement.

With --no-drop an existing index is kept and the sample is added to it.`,
	RunE: runCreateIndex,
}

var dropIndexCmd = &cobra.Command{
	Use:   "drop-index",
	Short: "Drop the search index and its documents",
	RunE:  runDropIndex,
}

var (
	corpusPath string
	sampleSize int
	sampleSeed uint64
	noDrop     bool
)

func init() {
	createIndexCmd.Flags().StringVar(&corpusPath, "corpus", "", "JSON corpus path (default from config)")
	createIndexCmd.Flags().IntVar(&sampleSize, "sample", 0, "number of records to index (default from config)")
	createIndexCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "sampling seed, 0 for random (default from config)")
	createIndexCmd.Flags().BoolVar(&noDrop, "no-drop", false, "keep an existing index")

	rootCmd.AddCommand(createIndexCmd)
	rootCmd.AddCommand(dropIndexCmd)
}

func runCreateIndex(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bs := globalConfig.Bootstrap
	if !cmd.Flags().Changed("corpus") {
		corpusPath = bs.CorpusPath
	}
	if !cmd.Flags().Changed("sample") {
		sampleSize = bs.SampleSize
	}
	if !cmd.Flags().Changed("seed") {
		sampleSeed = bs.Seed
	}

	raws, err := corpus.Load(corpusPath)
	if err != nil {
		return err
	}
	sample := corpus.Sample(raws, sampleSize, sampleSeed)
	globalLogger.Info("Corpus loaded",
		zap.String("path", corpusPath), zap.Int("records", len(raws)), zap.Int("sample", len(sample)))

	a, err := openApp(ctx)
	if err != nil {
		return err
	}

	if noDrop {
		err = a.Indexing.EnsureIndex(ctx)
	} else {
		err = a.Indexing.Rebuild(ctx)
	}
	if err != nil {
		return err
	}

	report, err := a.Indexing.IngestAll(ctx, sample)
	calls, tokens := a.Usage.Usage()
	globalLogger.Info("Embedding usage",
		zap.Int64("embedding_calls", calls),
		zap.Int64("embedding_tokens", tokens),
	)
	if err != nil {
		return fmt.Errorf("ingest interrupted: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully indexed %d into index: %s (%d failed).\n",
		report.Indexed, a.Index.Name(), report.Failed)
	return nil
}

func runDropIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}

	dropped, err := a.Index.Drop(ctx)
	if err != nil {
		return err
	}
	if !dropped {
		fmt.Fprintf(cmd.OutOrStdout(), "Index %s does not exist.\n", a.Index.Name())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dropped index %s.\n", a.Index.Name())
	return nil
}
