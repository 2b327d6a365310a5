package app

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/qubelet/qsampler/internal/manifest"
	"github.com/qubelet/qsampler/internal/result"
	"github.com/qubelet/qsampler/internal/shape"
)

// renderResult writes the per-pub counts to the application's output writer.
// Registers appear in declaration order, binding points in row-major order,
// bitstrings sorted lexicographically.
func (a *App) renderResult(batch *manifest.Batch, res *result.PrimitiveResult) error {
	w := bufio.NewWriter(a.outW)

	for i, pr := range res.All() {
		entry := batch.Entries[i]
		shots, _ := pr.Metadata["shots"].(int)
		fmt.Fprintf(w, "\npub %d %q (circuit %q, shots %d)\n", i, entry.Name, entry.Spec.Circuit.Name, shots)

		if warnings, ok := pr.Metadata["warnings"].([]string); ok {
			for _, msg := range warnings {
				fmt.Fprintf(w, "  warning: %s\n", msg)
			}
		}

		if len(pr.RegisterNames) == 0 {
			fmt.Fprintln(w, "  (no classical data)")
			continue
		}

		for _, name := range pr.RegisterNames {
			ba := pr.Data[name]
			if ba.NumPoints() == 1 {
				writeCounts(w, fmt.Sprintf("  %s:", name), ba.Counts())
				continue
			}
			shp := ba.Shape()
			for flat := 0; flat < ba.NumPoints(); flat++ {
				idx := shape.Unravel(flat, shp)
				writeCounts(w, fmt.Sprintf("  %s %v:", name, idx), ba.Counts(idx...))
			}
		}
	}

	return w.Flush()
}

func writeCounts(w io.Writer, header string, counts map[string]int) {
	fmt.Fprintln(w, header)
	for _, key := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(w, "    %s: %d\n", key, counts[key])
	}
}
