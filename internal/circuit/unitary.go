package circuit

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// unitaryTol bounds the per-element deviation of U * U-dagger from the
// identity before a custom matrix is rejected.
const unitaryTol = 1e-8

// checkUnitary verifies that m is a row-major 2^k x 2^k unitary matrix.
func checkUnitary(m []complex128, k int) error {
	dim := 1 << k
	if len(m) != dim*dim {
		return fmt.Errorf("unitary over %d qubit(s) needs a %dx%d matrix, got %d element(s)", k, dim, dim, len(m))
	}
	u := mat.NewCDense(dim, dim, m)
	prod := mat.NewCDense(dim, dim, nil)
	// mat.CDense has no Mul method; U * U-dagger goes through the BLAS-level
	// Gemm, with ConjTrans supplying the dagger on the second operand.
	cblas128.Gemm(blas.NoTrans, blas.ConjTrans, 1, u.RawCMatrix(), u.RawCMatrix(), 0, prod.RawCMatrix())
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			want := complex(0, 0)
			if i == j {
				want = complex(1, 0)
			}
			if cmplx.Abs(prod.At(i, j)-want) > unitaryTol {
				return fmt.Errorf("matrix is not unitary: (U * U†)[%d,%d] = %v", i, j, prod.At(i, j))
			}
		}
	}
	return nil
}
