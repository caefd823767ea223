package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSONL renders a trace as JSON Lines: one event object per line.
func WriteJSONL(w io.Writer, events []FiringEvent) error {
	buffered := bufio.NewWriter(w)
	encoder := json.NewEncoder(buffered)

	for _, e := range events {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("encoding event at step %d: %w", e.Step, err)
		}
	}
	return buffered.Flush()
}

// ReadJSONL parses a JSONL trace back into events, for round-tripping
// recorded runs through files.
func ReadJSONL(r io.Reader) ([]FiringEvent, error) {
	var events []FiringEvent
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var e FiringEvent
		if err := json.Unmarshal(text, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
