// Package result holds the assembled output of a sampling job: one
// PubResult per submitted pub, in submission order, wrapped in a
// PrimitiveResult tagged with the result format version.
package result

import (
	"iter"

	"github.com/qubelet/qsampler/internal/bitarray"
)

// FormatVersion tags PrimitiveResult metadata so downstream consumers can
// detect the result schema they are reading.
const FormatVersion = 2

// PubResult is the outcome of one pub: sampled data per classical
// register plus execution metadata.
type PubResult struct {
	// Data maps register name to its sampled bit array. A circuit with no
	// classical registers yields an empty (non-nil) map.
	Data map[string]*bitarray.BitArray
	// RegisterNames preserves the circuit's register declaration order,
	// which the map cannot.
	RegisterNames []string
	// Metadata carries the pub's execution metadata: "shots",
	// "circuit_metadata", "simulator_metadata", and "warnings" when the
	// pub was degenerate.
	Metadata map[string]any
}

// Register returns the bit array of one register, nil if absent.
func (r *PubResult) Register(name string) *bitarray.BitArray { return r.Data[name] }

// PrimitiveResult is the ordered collection of pub results for one job.
type PrimitiveResult struct {
	pubResults []*PubResult
	metadata   map[string]any
}

// New assembles a PrimitiveResult. The slice order is the submission
// order and is preserved.
func New(pubResults []*PubResult) *PrimitiveResult {
	return &PrimitiveResult{
		pubResults: pubResults,
		metadata:   map[string]any{"version": FormatVersion},
	}
}

// Len returns the number of pub results.
func (r *PrimitiveResult) Len() int { return len(r.pubResults) }

// At returns the i-th pub result in submission order.
func (r *PrimitiveResult) At(i int) *PubResult { return r.pubResults[i] }

// All iterates the pub results in submission order.
func (r *PrimitiveResult) All() iter.Seq2[int, *PubResult] {
	return func(yield func(int, *PubResult) bool) {
		for i, pr := range r.pubResults {
			if !yield(i, pr) {
				return
			}
		}
	}
}

// Metadata returns the batch-level metadata.
func (r *PrimitiveResult) Metadata() map[string]any { return r.metadata }
