// Package dataset provides an immutable named-column table backed by a
// gonum matrix, plus the CSV loading used to build one.
package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

// Table is an immutable collection of rows with named float64 columns.
// Every operation that changes shape or order returns a new Table, so a
// Table handed to concurrent readers is never written again.
type Table struct {
	columns []string
	index   map[string]int
	data    *mat.Dense
}

// New creates a Table from column names and a backing matrix.
// The matrix column count must match the number of names, and names must
// be unique.
func New(columns []string, data *mat.Dense) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.NewModelError("dataset.New", "empty table", errors.ErrEmptyData)
	}
	_, c := data.Dims()
	if c != len(columns) {
		return nil, errors.NewDimensionError("dataset.New", len(columns), c, 1)
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, ok := index[name]; ok {
			return nil, errors.NewValueError("dataset.New",
				fmt.Sprintf("duplicate column name: %q", name))
		}
		index[name] = i
	}

	names := make([]string, len(columns))
	copy(names, columns)

	return &Table{columns: names, index: index, data: data}, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	r, _ := t.data.Dims()
	return r
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, errors.NewValueError("dataset.Column",
			fmt.Sprintf("unknown column: %q", name))
	}
	return mat.Col(nil, j, t.data), nil
}

// Has reports whether the table contains the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Drop returns a new Table without the named columns.
// Every name must exist in the table.
func (t *Table) Drop(names ...string) (*Table, error) {
	dropped := make(map[int]bool, len(names))
	for _, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, errors.NewValueError("dataset.Drop",
				fmt.Sprintf("unknown column: %q", name))
		}
		dropped[j] = true
	}

	kept := make([]int, 0, len(t.columns)-len(dropped))
	keptNames := make([]string, 0, len(t.columns)-len(dropped))
	for j, name := range t.columns {
		if !dropped[j] {
			kept = append(kept, j)
			keptNames = append(keptNames, name)
		}
	}
	if len(kept) == 0 {
		return nil, errors.NewValueError("dataset.Drop", "cannot drop every column")
	}

	rows := t.Rows()
	data := mat.NewDense(rows, len(kept), nil)
	for i := 0; i < rows; i++ {
		for out, j := range kept {
			data.Set(i, out, t.data.At(i, j))
		}
	}

	return New(keptNames, data)
}

// SplitXY separates the table into a feature matrix X excluding the target
// column, the target vector y, and the feature names aligned with X's
// columns. Both X and y are fresh copies.
func (t *Table) SplitXY(target string) (X *mat.Dense, y *mat.VecDense, features []string, err error) {
	tj, ok := t.index[target]
	if !ok {
		return nil, nil, nil, errors.NewValueError("dataset.SplitXY",
			fmt.Sprintf("unknown target column: %q", target))
	}
	if len(t.columns) < 2 {
		return nil, nil, nil, errors.NewValueError("dataset.SplitXY",
			"table has no feature columns besides the target")
	}

	rows := t.Rows()
	X = mat.NewDense(rows, len(t.columns)-1, nil)
	y = mat.NewVecDense(rows, nil)
	features = make([]string, 0, len(t.columns)-1)

	out := 0
	for j, name := range t.columns {
		if j == tj {
			continue
		}
		for i := 0; i < rows; i++ {
			X.Set(i, out, t.data.At(i, j))
		}
		features = append(features, name)
		out++
	}
	for i := 0; i < rows; i++ {
		y.SetVec(i, t.data.At(i, tj))
	}

	return X, y, features, nil
}

// Shuffle returns a new Table with rows permuted by a seeded Fisher-Yates
// shuffle. A negative seed draws the seed from the current time, making
// the permutation different on every run.
func (t *Table) Shuffle(seed int64) *Table {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	rows := t.Rows()
	perm := make([]int, rows)
	for i := range perm {
		perm[i] = i
	}
	r.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	data := mat.NewDense(rows, len(t.columns), nil)
	for i, src := range perm {
		for j := range t.columns {
			data.Set(i, j, t.data.At(src, j))
		}
	}

	// The name set is unchanged, so the index can be shared.
	return &Table{columns: t.columns, index: t.index, data: data}
}

// IsBinary reports whether every value of y is 0 or 1 and both occur.
func IsBinary(y *mat.VecDense) bool {
	if y == nil || y.Len() == 0 {
		return false
	}
	var seenZero, seenOne bool
	for i := 0; i < y.Len(); i++ {
		switch y.AtVec(i) {
		case 0:
			seenZero = true
		case 1:
			seenOne = true
		default:
			return false
		}
	}
	return seenZero && seenOne
}
