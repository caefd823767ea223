// Package parser decodes and encodes the JSON net documents exchanged
// with the command dispatcher. It is the shape-validation boundary: the
// analysis core below assumes rectangular, shape-consistent, non-negative
// matrices.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrShape is wrapped by all shape-validation failures.
var ErrShape = errors.New("parser: inconsistent net shape")

// NetDocument is the wire form of a net:
//
//	{
//	  "marking": [0, 1],
//	  "inputs":  [[0, 1], [1, 0]],
//	  "outputs": [[1, 0], [0, 1]]
//	}
//
// Rows of inputs/outputs index transitions, columns index places.
type NetDocument struct {
	Marking []int16   `json:"marking"`
	Inputs  [][]int16 `json:"inputs"`
	Outputs [][]int16 `json:"outputs"`
}

// FromJSON parses and validates a net document.
func FromJSON(data []byte) (*NetDocument, error) {
	var doc NetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ToJSON renders a net document.
func ToJSON(doc *NetDocument) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Validate checks rectangularity, the shared T x P shape, the marking
// length and weight non-negativity.
func (d *NetDocument) Validate() error {
	places := len(d.Marking)

	if len(d.Inputs) != len(d.Outputs) {
		return fmt.Errorf("%w: %d input rows vs %d output rows",
			ErrShape, len(d.Inputs), len(d.Outputs))
	}
	for t, row := range d.Inputs {
		if len(row) != places {
			return fmt.Errorf("%w: input row %d has %d columns, marking has %d places",
				ErrShape, t, len(row), places)
		}
	}
	for t, row := range d.Outputs {
		if len(row) != places {
			return fmt.Errorf("%w: output row %d has %d columns, marking has %d places",
				ErrShape, t, len(row), places)
		}
	}

	for p, v := range d.Marking {
		if v < 0 {
			return fmt.Errorf("%w: negative token count %d in place %d", ErrShape, v, p)
		}
	}
	for t, row := range d.Inputs {
		for p, v := range row {
			if v < 0 {
				return fmt.Errorf("%w: negative input weight %d at (%d, %d)", ErrShape, v, t, p)
			}
		}
	}
	for t, row := range d.Outputs {
		for p, v := range row {
			if v < 0 {
				return fmt.Errorf("%w: negative output weight %d at (%d, %d)", ErrShape, v, t, p)
			}
		}
	}
	return nil
}
