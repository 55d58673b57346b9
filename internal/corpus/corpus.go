// Package corpus reads, writes and samples the JSON source corpus.
package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
)

// Read decodes a JSON array of raw records.
func Read(r io.Reader) ([]domdoc.Raw, error) {
	var raws []domdoc.Raw
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return raws, nil
}

// Load reads the corpus file at path.
func Load(path string) ([]domdoc.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Write encodes raws as a JSON array.
func Write(w io.Writer, raws []domdoc.Raw) error {
	if raws == nil {
		raws = []domdoc.Raw{}
	}
	if err := json.NewEncoder(w).Encode(raws); err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	return nil
}

// Save writes raws to path, replacing any existing file.
func Save(path string, raws []domdoc.Raw) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create corpus: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close corpus: %w", cerr)
		}
	}()
	return Write(f, raws)
}

// Sample picks n records without replacement. n <= 0 or n >= len(raws)
// returns every record in shuffled order. Seed 0 draws a random seed.
func Sample(raws []domdoc.Raw, n int, seed uint64) []domdoc.Raw {
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	if n <= 0 || n > len(raws) {
		n = len(raws)
	}
	out := make([]domdoc.Raw, n)
	for i, idx := range rng.Perm(len(raws))[:n] {
		out[i] = raws[idx]
	}
	return out
}
