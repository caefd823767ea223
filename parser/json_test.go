package parser

import (
	"errors"
	"testing"
)

func TestFromJSONValid(t *testing.T) {
	doc, err := FromJSON([]byte(`{
		"marking": [0, 1],
		"inputs":  [[0, 1], [1, 0]],
		"outputs": [[1, 0], [0, 1]]
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Marking) != 2 || len(doc.Inputs) != 2 {
		t.Errorf("unexpected document %+v", doc)
	}
}

func TestFromJSONRaggedRows(t *testing.T) {
	_, err := FromJSON([]byte(`{
		"marking": [0, 1],
		"inputs":  [[0, 1], [1]],
		"outputs": [[1, 0], [0, 1]]
	}`))
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestFromJSONMismatchedMatrices(t *testing.T) {
	_, err := FromJSON([]byte(`{
		"marking": [0, 1],
		"inputs":  [[0, 1]],
		"outputs": [[1, 0], [0, 1]]
	}`))
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestFromJSONNegativeWeight(t *testing.T) {
	_, err := FromJSON([]byte(`{
		"marking": [0, 1],
		"inputs":  [[0, -1], [1, 0]],
		"outputs": [[1, 0], [0, 1]]
	}`))
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestFromJSONEmptyNet(t *testing.T) {
	// an empty net is a valid document; the simulator treats it as
	// immediately deadlocked
	doc, err := FromJSON([]byte(`{"marking": [], "inputs": [], "outputs": []}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Marking) != 0 {
		t.Errorf("unexpected document %+v", doc)
	}
}

func TestRoundTrip(t *testing.T) {
	doc := &NetDocument{
		Marking: []int16{9, 9},
		Inputs:  [][]int16{{0, 1}, {1, 0}},
		Outputs: [][]int16{{1, 0}, {0, 1}},
	}

	data, err := ToJSON(doc)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	parsed, err := FromJSON(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if parsed.Marking[0] != 9 || parsed.Inputs[1][0] != 1 {
		t.Errorf("round trip mismatch: %+v", parsed)
	}
}
