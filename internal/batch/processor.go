// Package batch reads texts for batch translation and processes them one
// after another.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one text to translate, with its 1-based line number
type Entry struct {
	Line int
	Text string
}

// ReadBatchFile reads one text per line. Blank lines and lines starting
// with '#' are skipped.
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// Parse reads entries from r
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if line == 1 {
			text = strings.TrimPrefix(text, "\uFEFF")
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		entries = append(entries, Entry{Line: line, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Failure records an entry whose handler returned an error
type Failure struct {
	Entry Entry
	Err   error
}

// Summary describes the outcome of a batch run
type Summary struct {
	Processed int
	Failures  []Failure
}

// Succeeded returns the number of entries handled without error
func (s Summary) Succeeded() int {
	return s.Processed - len(s.Failures)
}

// Run hands each entry to handle in order. A failing entry does not stop
// the run; a canceled context does.
func Run(ctx context.Context, entries []Entry, handle func(context.Context, Entry) error) (Summary, error) {
	var summary Summary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Processed++
		if err := handle(ctx, entry); err != nil {
			summary.Failures = append(summary.Failures, Failure{Entry: entry, Err: err})
		}
	}
	return summary, nil
}
