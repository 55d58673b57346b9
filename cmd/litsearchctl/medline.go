package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/litsearch/internal/corpus"
	"github.com/kailas-cloud/litsearch/internal/corpus/medline"
)

var convertCmd = &cobra.Command{
	Use:   "convert-medline",
	Short: "Convert a PubMed MEDLINE export to the JSON corpus",
	RunE:  runConvert,
}

var (
	medlineIn  string
	medlineOut string
)

func init() {
	convertCmd.Flags().StringVar(&medlineIn, "in", "", "MEDLINE text file")
	convertCmd.Flags().StringVar(&medlineOut, "out", "pubmed-tja.json", "output JSON path")
	_ = convertCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(medlineIn)
	if err != nil {
		return fmt.Errorf("open medline: %w", err)
	}
	defer func() { _ = f.Close() }()

	raws, err := medline.Parse(f)
	if err != nil {
		return err
	}
	if err := corpus.Save(medlineOut, raws); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s.\n", len(raws), medlineOut)
	return nil
}
