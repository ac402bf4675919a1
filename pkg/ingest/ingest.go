// Package ingest runs a line source through the parser into a store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/ccollicutt/p2000/pkg/parser"
	"github.com/ccollicutt/p2000/pkg/store"
)

// SourceError reports a failure of the line source. Messages read before
// the failure remain in the store.
type SourceError struct {
	// Source is the input that failed.
	Source string

	// Line is the number of lines read from all sources before the failure.
	Line int

	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("reading %s after %d lines: %v", e.Source, e.Line, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Result summarizes one ingestion pass.
type Result struct {
	// LinesRead counts every line the source yielded.
	LinesRead int

	// Appended counts messages added to the store.
	Appended int

	// Skipped counts lines that were not messages, per reason.
	Skipped map[parser.SkipReason]int

	// MissingTimestamps counts appended messages without a parsed timestamp.
	MissingTimestamps int

	// Sources lists the inputs lines were read from, in order.
	Sources []string

	StartTime time.Time
	EndTime   time.Time
}

// TotalSkipped returns the number of skipped lines over all reasons.
func (r *Result) TotalSkipped() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// Run reads src to the end, appending every accepted line to st. It
// returns a *SourceError when the source fails and ctx.Err() when ctx is
// done; in both cases the partial Result is returned too.
func Run(ctx context.Context, src parser.LineSource, p *parser.Parser, st *store.Store) (*Result, error) {
	log := charmlog.FromContext(ctx)

	result := &Result{
		Skipped:   make(map[parser.SkipReason]int),
		StartTime: time.Now(),
	}
	defer func() { result.EndTime = time.Now() }()

	seen := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			return result, &SourceError{Source: src.Name(), Line: result.LinesRead, Err: err}
		}

		result.LinesRead++
		if !seen[line.Source] {
			seen[line.Source] = true
			result.Sources = append(result.Sources, line.Source)
		}

		msg, reason := p.Parse(*line)
		if reason != parser.SkipNone {
			result.Skipped[reason]++
			log.Debug("skipped line", "source", line.Source, "line", line.LineNum, "reason", reason)
			continue
		}

		st.Append(msg)
		result.Appended++
		if _, ok := msg.Timestamp(); !ok {
			result.MissingTimestamps++
		}
	}

	log.Debug("ingestion finished",
		"lines", result.LinesRead,
		"messages", result.Appended,
		"skipped", result.TotalSkipped())

	return result, nil
}
