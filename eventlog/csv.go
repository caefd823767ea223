package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WriteCSV renders a trace as CSV with a header row. Markings are
// rendered in their bracketed vector form in a single column.
func WriteCSV(w io.Writer, events []FiringEvent) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"step", "transition", "marking", "at"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range events {
		record := []string{
			strconv.Itoa(e.Step),
			"t" + strconv.Itoa(e.Transition),
			markingString(e.Marking),
			e.At.Format(time.RFC3339Nano),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing event at step %d: %w", e.Step, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func markingString(m []int16) string {
	s := "["
	for i, v := range m {
		if i > 0 {
			s += ", "
		}
		s += strconv.Itoa(int(v))
	}
	return s + "]"
}
