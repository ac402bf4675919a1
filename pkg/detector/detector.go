// Package detector inspects a P2000 log sample and proposes parser settings.
package detector

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/p2000/pkg/parser"
)

// DefaultSampleSize is the number of lines sampled when none is configured.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a log sample.
type DetectionResult struct {
	SampledLines int // Number of non-blank, non-comment lines sampled

	// Delimiters ranks the candidate delimiters, best first.
	Delimiters []DelimiterMatch

	// TimestampFirst is the detected field order of the best delimiter.
	TimestampFirst       bool
	FieldOrderConfidence float64

	Matches       []FormatMatch // Timestamp formats that matched, sorted by confidence descending
	ParsedLines   int           // Number of accepted lines with a detected timestamp
	AmbiguityNote string        // Warning about date ordering if applicable
}

// DelimiterMatch is a candidate delimiter and how many sampled lines
// classify as messages with it.
type DelimiterMatch struct {
	Delimiter  string
	Confidence float64 // 0.0 to 1.0 (share of sampled lines accepted)
	MatchCount int
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *TimestampFormat
	Confidence float64   // 0.0 to 1.0 (share of accepted lines matched)
	MatchCount int       // Number of lines that matched
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Parsed timestamp from sample
}

// Detector analyzes log samples to identify the record format.
type Detector struct {
	formats    []*TimestampFormat
	delimiters []string
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithDelimiters replaces the candidate delimiters, tried in order.
func WithDelimiters(delims ...string) Option {
	return func(d *Detector) {
		if len(delims) > 0 {
			d.delimiters = delims
		}
	}
}

// CandidateDelimiters returns the delimiters tried by default. Ties are
// broken in this order.
func CandidateDelimiters() []string {
	return []string{"|", ";", "\t", ","}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		delimiters: CandidateDelimiters(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes the head of a log file.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines. Blank and comment lines
// are ignored.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	var sample []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, parser.DefaultCommentPrefix) {
			continue
		}
		sample = append(sample, trimmed)
	}

	result := &DetectionResult{
		SampledLines: len(sample),
	}
	if len(sample) == 0 {
		return result
	}

	// Classify the sample with every candidate delimiter
	accepted := make(map[string][]acceptedLine, len(d.delimiters))
	for _, delim := range d.delimiters {
		p := parser.New(parser.WithDelimiter(delim))
		for _, line := range sample {
			tok, reason := p.Classify(parser.RawLine{Text: line})
			if reason == parser.SkipNone {
				accepted[delim] = append(accepted[delim], acceptedLine{text: line, tok: tok})
			}
		}
		result.Delimiters = append(result.Delimiters, DelimiterMatch{
			Delimiter:  delim,
			Confidence: float64(len(accepted[delim])) / float64(len(sample)),
			MatchCount: len(accepted[delim]),
		})
	}

	sort.SliceStable(result.Delimiters, func(i, j int) bool {
		return result.Delimiters[i].MatchCount > result.Delimiters[j].MatchCount
	})

	best := result.BestDelimiter()
	if best == nil {
		return result
	}
	records := accepted[best.Delimiter]

	tsFirst := 0
	for _, r := range records {
		if r.tok.TimestampFirst {
			tsFirst++
		}
	}
	result.TimestampFirst = tsFirst*2 > len(records)
	majority := tsFirst
	if !result.TimestampFirst {
		majority = len(records) - tsFirst
	}
	result.FieldOrderConfidence = float64(majority) / float64(len(records))

	d.detectTimestamps(result, records)

	return result
}

type acceptedLine struct {
	text string
	tok  parser.Tokenized
}

// detectTimestamps ranks the timestamp formats over the timestamp field of
// the accepted records.
func (d *Detector) detectTimestamps(result *DetectionResult, records []acceptedLine) {
	type formatStats struct {
		format     *TimestampFormat
		matchCount int
		sampleLine string
		parsedTime time.Time
	}

	stats := make(map[string]*formatStats)
	order := make([]string, 0)

	for _, r := range records {
		ts := r.tok.TimestampText
		for _, format := range d.formats {
			if !format.Pattern.MatchString(ts) {
				continue
			}
			parsed, err := time.Parse(format.Layout, ts)
			if err != nil {
				continue
			}

			key := format.Name
			if stats[key] == nil {
				stats[key] = &formatStats{
					format:     format,
					sampleLine: r.text,
					parsedTime: parsed,
				}
				order = append(order, key)
			}
			stats[key].matchCount++
		}
	}

	for _, key := range order {
		s := stats[key]
		result.Matches = append(result.Matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(len(records)),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}

	// Sort by confidence descending, then by pattern length (more specific first)
	sort.SliceStable(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return len(result.Matches[i].Format.PatternStr) > len(result.Matches[j].Format.PatternStr)
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
	}

	if len(result.Matches) > 0 && result.Matches[0].Format.Ambiguous {
		result.AmbiguityNote = "This format has date ordering ambiguity (DD/MM vs MM/DD). " +
			"Dutch exports write the day first; verify the layout matches your log."
	}
}

// sampleFile reads up to sampleSize non-blank lines from a file.
// Uses simple head sampling for efficiency.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for len(lines) < d.sampleSize && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed != "" && !strings.HasPrefix(trimmed, parser.DefaultCommentPrefix) {
			lines = append(lines, trimmed)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestDelimiter returns the delimiter accepting the most lines, or nil if
// no candidate accepted any.
func (r *DetectionResult) BestDelimiter() *DelimiterMatch {
	if len(r.Delimiters) == 0 || r.Delimiters[0].MatchCount == 0 {
		return nil
	}
	return &r.Delimiters[0]
}

// BestMatch returns the highest confidence timestamp format, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if the sample looks like message records.
func (r *DetectionResult) HasMatch() bool {
	return r.BestDelimiter() != nil
}
