// Package matrix implements an owned sparse boolean matrix. Rows are stored
// lazily: a row that never received a true entry costs nothing, and every
// allocated row is a bitset as wide as the matrix.
package matrix

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/bits-and-blooms/bitset"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Coord is a single true entry of a matrix.
type Coord struct{ Row, Col int }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Bool is a rows×cols boolean matrix over the (∨, ∧) semiring.
type Bool struct {
	rows, cols int
	data       map[int]*bitset.BitSet
}

func New(rows, cols int) *Bool {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("negative matrix shape %dx%d", rows, cols))
	}

	return &Bool{rows: rows, cols: cols, data: make(map[int]*bitset.BitSet)}
}

func Square(n int) *Bool { return New(n, n) }

func Identity(n int) *Bool {
	m := Square(n)
	for i := 0; i < n; i++ {
		m.Set(i, i)
	}

	return m
}

func (m *Bool) Dims() (rows, cols int) { return m.rows, m.cols }
func (m *Bool) Rows() int              { return m.rows }
func (m *Bool) Cols() int              { return m.cols }

func (m *Bool) check(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("index (%d,%d) out of bounds for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

func (m *Bool) row(i int) *bitset.BitSet {
	r, ok := m.data[i]
	if !ok {
		r = bitset.New(uint(m.cols))
		m.data[i] = r
	}

	return r
}

// Set marks (i, j) and reports whether the entry was previously false.
func (m *Bool) Set(i, j int) bool {
	m.check(i, j)
	r := m.row(i)
	if r.Test(uint(j)) {
		return false
	}
	r.Set(uint(j))

	return true
}

func (m *Bool) Test(i, j int) bool {
	m.check(i, j)
	r, ok := m.data[i]
	return ok && r.Test(uint(j))
}

// Row returns the i-th row or nil when the row holds no true entries. The
// returned bitset is owned by the matrix.
func (m *Bool) Row(i int) *bitset.BitSet {
	r, ok := m.data[i]
	if !ok || r.None() {
		return nil
	}

	return r
}

// OrRow merges row into the i-th row and reports whether anything changed.
func (m *Bool) OrRow(i int, row *bitset.BitSet) bool {
	if row == nil || row.None() {
		return false
	}
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("row %d out of bounds for %dx%d matrix", i, m.rows, m.cols))
	}
	if row.Len() > uint(m.cols) {
		if last, ok := lastSet(row); ok && int(last) >= m.cols {
			panic(fmt.Sprintf("column %d out of bounds for %dx%d matrix", last, m.rows, m.cols))
		}
	}

	r := m.row(i)
	before := r.Count()
	r.InPlaceUnion(row)

	return r.Count() != before
}

// Or merges o into m (m |= o) and reports whether m changed.
func (m *Bool) Or(o *Bool) bool {
	m.sameShape(o)

	changed := false
	for i, r := range o.data {
		if m.OrRow(i, r) {
			changed = true
		}
	}

	return changed
}

// Mul returns the boolean product m·o.
func (m *Bool) Mul(o *Bool) *Bool {
	if m.cols != o.rows {
		panic(fmt.Sprintf("can't multiply %dx%d by %dx%d", m.rows, m.cols, o.rows, o.cols))
	}

	res := New(m.rows, o.cols)
	for i, r := range m.data {
		var acc *bitset.BitSet
		for k, ok := r.NextSet(0); ok; k, ok = r.NextSet(k + 1) {
			other, found := o.data[int(k)]
			if !found || other.None() {
				continue
			}
			if acc == nil {
				acc = bitset.New(uint(o.cols))
			}
			acc.InPlaceUnion(other)
		}
		if acc != nil && acc.Any() {
			res.data[i] = acc
		}
	}

	return res
}

// Kron returns the Kronecker (tensor) product m⊗o. Entry (i,j) of m and entry
// (p,q) of o produce entry (i·o.rows+p, j·o.cols+q).
func (m *Bool) Kron(o *Bool) *Bool {
	res := New(m.rows*o.rows, m.cols*o.cols)
	for i, r := range m.data {
		for j, ok := r.NextSet(0); ok; j, ok = r.NextSet(j + 1) {
			for p, other := range o.data {
				for q, ok := other.NextSet(0); ok; q, ok = other.NextSet(q + 1) {
					res.Set(i*o.rows+p, int(j)*o.cols+int(q))
				}
			}
		}
	}

	return res
}

// BlockDiag returns the direct sum of ms: every matrix is placed on the
// diagonal after the previous one, everything else is false.
func BlockDiag(ms ...*Bool) *Bool {
	var rows, cols int
	for _, m := range ms {
		rows += m.rows
		cols += m.cols
	}

	res := New(rows, cols)
	var rowOffset, colOffset int
	for _, m := range ms {
		for i, r := range m.data {
			for j, ok := r.NextSet(0); ok; j, ok = r.NextSet(j + 1) {
				res.Set(rowOffset+i, colOffset+int(j))
			}
		}
		rowOffset += m.rows
		colOffset += m.cols
	}

	return res
}

// Columns returns the sub-matrix made of columns [from, to).
func (m *Bool) Columns(from, to int) *Bool {
	if from < 0 || to > m.cols || from > to {
		panic(fmt.Sprintf("column range [%d,%d) out of bounds for %dx%d matrix", from, to, m.rows, m.cols))
	}

	res := New(m.rows, to-from)
	for i, r := range m.data {
		for j, ok := r.NextSet(uint(from)); ok && int(j) < to; j, ok = r.NextSet(j + 1) {
			res.Set(i, int(j)-from)
		}
	}

	return res
}

// ReduceRows ORs the listed rows together into a single bitset of width cols.
func (m *Bool) ReduceRows(rows ...int) *bitset.BitSet {
	res := bitset.New(uint(m.cols))
	for _, i := range rows {
		if r, ok := m.data[i]; ok {
			res.InPlaceUnion(r)
		}
	}

	return res
}

// TransitiveClosure returns the matrix of pairs connected by a path of one
// or more steps.
func (m *Bool) TransitiveClosure() *Bool {
	if m.rows != m.cols {
		panic(fmt.Sprintf("closure of non-square %dx%d matrix", m.rows, m.cols))
	}

	res := m.Clone()
	for res.Or(res.Mul(m)) {
	}

	return res
}

func (m *Bool) Clone() *Bool {
	res := New(m.rows, m.cols)
	for i, r := range m.data {
		if r.Any() {
			res.data[i] = r.Clone()
		}
	}

	return res
}

// Equal reports whether the symmetric difference of m and o has no true
// entries.
func (m *Bool) Equal(o *Bool) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}

	for _, i := range unionKeys(m.data, o.data) {
		a, b := m.data[i], o.data[i]
		switch {
		case a == nil && b == nil:
			continue
		case a == nil:
			if b.Any() {
				return false
			}
		case b == nil:
			if a.Any() {
				return false
			}
		default:
			if a.SymmetricDifference(b).Any() {
				return false
			}
		}
	}

	return true
}

// Nnz is the number of true entries.
func (m *Bool) Nnz() int {
	var n uint
	for _, r := range m.data {
		n += r.Count()
	}

	return int(n)
}

func (m *Bool) IsZero() bool { return m.Nnz() == 0 }

// Each calls f for every true entry in row-major order.
func (m *Bool) Each(f func(i, j int)) {
	rows := maps.Keys(m.data)
	slices.Sort(rows)
	for _, i := range rows {
		r := m.data[i]
		for j, ok := r.NextSet(0); ok; j, ok = r.NextSet(j + 1) {
			f(i, int(j))
		}
	}
}

func (m *Bool) Nonzero() []Coord {
	res := make([]Coord, 0, m.Nnz())
	m.Each(func(i, j int) { res = append(res, Coord{Row: i, Col: j}) })

	return res
}

func (m *Bool) sameShape(o *Bool) {
	if m.rows != o.rows || m.cols != o.cols {
		panic(fmt.Sprintf("shape mismatch: %dx%d vs %dx%d", m.rows, m.cols, o.rows, o.cols))
	}
}

func (m *Bool) String() string {
	buf := bytes.NewBuffer(nil)
	w := tablewriter.NewWriter(buf)

	header := make([]string, m.cols+1)
	for j := 0; j < m.cols; j++ {
		header[j+1] = strconv.Itoa(j)
	}
	w.SetHeader(header)

	for i := 0; i < m.rows; i++ {
		row := make([]string, m.cols+1)
		row[0] = strconv.Itoa(i)
		for j := 0; j < m.cols; j++ {
			if m.Test(i, j) {
				row[j+1] = "1"
			} else {
				row[j+1] = "."
			}
		}
		w.Append(row)
	}

	w.Render()

	return buf.String()
}

func unionKeys(a, b map[int]*bitset.BitSet) []int {
	keys := maps.Keys(a)
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}

	return keys
}

func lastSet(b *bitset.BitSet) (uint, bool) {
	var (
		last  uint
		found bool
	)
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		last, found = i, true
	}

	return last, found
}
