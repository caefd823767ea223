// Package pnet implements the dense Place/Transition net primitives:
// arc-weight matrices, markings, enabledness tests and the firing-update
// index used for incremental enabled-set maintenance.
package pnet

// Matrix is a dense T x P table of arc weights. Rows are transitions,
// columns are places. Entries fit in a signed 16-bit integer.
type Matrix struct {
	transitions int
	places      int
	cells       []int16
}

// NewMatrix creates a zero matrix with the given shape.
func NewMatrix(transitions, places int) Matrix {
	return Matrix{
		transitions: transitions,
		places:      places,
		cells:       make([]int16, transitions*places),
	}
}

// MatrixFromRows builds a matrix from rectangular row data.
// Rows index transitions, columns index places.
func MatrixFromRows(rows [][]int16) Matrix {
	t := len(rows)
	p := 0
	if t > 0 {
		p = len(rows[0])
	}
	m := NewMatrix(t, p)
	for i, row := range rows {
		copy(m.cells[i*p:(i+1)*p], row)
	}
	return m
}

// Transitions returns the number of rows.
func (m Matrix) Transitions() int { return m.transitions }

// Places returns the number of columns.
func (m Matrix) Places() int { return m.places }

// At returns the weight for transition t and place p.
func (m Matrix) At(t, p int) int16 {
	return m.cells[t*m.places+p]
}

// Set sets the weight for transition t and place p.
func (m *Matrix) Set(t, p int, w int16) {
	m.cells[t*m.places+p] = w
}

// Row returns the row for transition t. The slice aliases the matrix
// storage and must not be mutated by the caller.
func (m Matrix) Row(t int) []int16 {
	return m.cells[t*m.places : (t+1)*m.places]
}

// Sub returns m - other elementwise. Both matrices must share shape.
func (m Matrix) Sub(other Matrix) Matrix {
	result := NewMatrix(m.transitions, m.places)
	for i := range m.cells {
		result.cells[i] = m.cells[i] - other.cells[i]
	}
	return result
}

// Net bundles the matrices of one P/T net: the input weights, the output
// weights and the effect matrix Out - In.
type Net struct {
	In     Matrix
	Out    Matrix
	Effect Matrix
}

// NewNet builds a Net from rectangular input/output rows and derives the
// effect matrix.
func NewNet(inputs, outputs [][]int16) Net {
	in := MatrixFromRows(inputs)
	out := MatrixFromRows(outputs)
	return Net{In: in, Out: out, Effect: out.Sub(in)}
}

// Transitions returns the transition count T.
func (n Net) Transitions() int { return n.In.Transitions() }

// Places returns the place count P.
func (n Net) Places() int { return n.In.Places() }

// Empty reports whether the net has no transitions or no places.
func (n Net) Empty() bool {
	return n.Transitions() == 0 || n.Places() == 0
}
