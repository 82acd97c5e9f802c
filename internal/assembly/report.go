package assembly

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadReport reads all rows of an assembly report.
func ReadReport(r io.Reader) ([]string, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		rows = append(rows, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan assembly report: %w", err)
	}

	return rows, nil
}

// SplitReport splits a report body into rows.
func SplitReport(body string) []string {
	body = strings.TrimRight(body, "\r\n")
	if body == "" {
		return nil
	}
	rows := strings.Split(body, "\n")
	for i, row := range rows {
		rows[i] = strings.TrimSuffix(row, "\r")
	}
	return rows
}
