// Package aggregate folds raw simulation outcomes into per-register bit
// arrays. A backend hands back flat classical bit vectors; the circuit's
// layout says which flat bit backs which bit of which named register, and
// aggregation is just that selection applied across every broadcast point
// and shot.
package aggregate

import (
	"fmt"

	"github.com/qubelet/qsampler/internal/bitarray"
	"github.com/qubelet/qsampler/internal/layout"
	"github.com/qubelet/qsampler/internal/shape"
)

// PubData builds one BitArray per register from the pub's raw runs, keyed
// by register name. raws is indexed [point][shot] and every row must be
// lay.TotalBits wide. Aliased registers come out as independent arrays
// reading the same flat bits, so their counts stay mutually consistent.
func PubData(lay layout.Layout, shp []int, shots int, raws [][][]byte) (map[string]*bitarray.BitArray, error) {
	points := shape.Size(shp)
	if len(raws) != points {
		return nil, fmt.Errorf("got runs for %d point(s), want %d", len(raws), points)
	}
	for p, rows := range raws {
		if len(rows) != shots {
			return nil, fmt.Errorf("point %d: got %d shot(s), want %d", p, len(rows), shots)
		}
		for s, row := range rows {
			if len(row) != lay.TotalBits {
				return nil, fmt.Errorf("point %d shot %d: outcome row has %d bit(s), want %d", p, s, len(row), lay.TotalBits)
			}
		}
	}

	data := make(map[string]*bitarray.BitArray, len(lay.Registers))
	for _, reg := range lay.Registers {
		ba := bitarray.New(shp, shots, reg.Width())
		for p := 0; p < points; p++ {
			for s := 0; s < shots; s++ {
				row := raws[p][s]
				for k, flat := range reg.Bits {
					ba.SetBit(p, s, k, row[flat])
				}
			}
		}
		data[reg.Name] = ba
	}
	return data, nil
}
