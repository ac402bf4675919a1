// Package output provides formatting of parsed messages and summaries.
package output

import (
	"time"

	"github.com/ccollicutt/p2000/pkg/ingest"
	"github.com/ccollicutt/p2000/pkg/message"
	"github.com/ccollicutt/p2000/pkg/stats"
	"github.com/ccollicutt/p2000/pkg/store"
)

// Report is the complete listing output.
type Report struct {
	// Summary describes all ingested messages, not only the listed ones.
	Summary *stats.Summary `json:"summary"`

	// Messages are the messages selected by the filter, in input order.
	Messages []message.Message `json:"messages"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the inputs that were read.
	Sources []string `json:"sources"`

	// Query and Priority echo the filter applied to Messages.
	Query    string           `json:"query,omitempty"`
	Priority message.Priority `json:"priority,omitempty"`

	// Partial is set when a source failed before its end.
	Partial     bool   `json:"partial,omitempty"`
	SourceError string `json:"source_error,omitempty"`

	// GeneratedAt is when ingestion finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is how long ingestion took.
	Duration time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from an ingestion pass. sourceErr is the
// error returned by ingest.Run, if any.
func NewReport(st *store.Store, res *ingest.Result, filter store.Filter, configFile string, sourceErr error) *Report {
	report := &Report{
		Summary:  stats.Compute(st.All(), res),
		Messages: st.Search(filter),
		Metadata: Metadata{
			ConfigFile: configFile,
			Query:      filter.Text,
			Priority:   filter.Priority,
		},
	}
	if report.Messages == nil {
		report.Messages = []message.Message{}
	}

	if res != nil {
		report.Metadata.Sources = res.Sources
		report.Metadata.GeneratedAt = res.EndTime
		report.Metadata.Duration = res.EndTime.Sub(res.StartTime)
	}
	if report.Metadata.Sources == nil {
		report.Metadata.Sources = []string{}
	}

	if sourceErr != nil {
		report.Metadata.Partial = true
		report.Metadata.SourceError = sourceErr.Error()
	}

	return report
}
