package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/p2000/internal/logger"
	"github.com/ccollicutt/p2000/pkg/abbrev"
	"github.com/ccollicutt/p2000/pkg/config"
	"github.com/ccollicutt/p2000/pkg/ingest"
	"github.com/ccollicutt/p2000/pkg/parser"
	"github.com/ccollicutt/p2000/pkg/places"
	"github.com/ccollicutt/p2000/pkg/store"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes.
const (
	ExitOK      = 0
	ExitPartial = 1
	ExitError   = 2
)

// GlobalOptions holds the persistent flags of the root command.
type GlobalOptions struct {
	ConfigFile string
	LogLevel   string
	LogJSON    bool
}

// session is the state shared by commands that read messages.
type session struct {
	ctx        context.Context
	cfg        *config.Config
	configFile string
	store      *store.Store
	result     *ingest.Result
	sourceErr  error
	abbrev     *abbrev.Table
	places     *places.Table
}

// loadConfig loads the configuration and returns a context carrying the
// logger built from it. Flags override the configured log settings.
func loadConfig(cmd *cobra.Command, g *GlobalOptions) (context.Context, *config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, g.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	parsed, err := logger.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = parsed
	logCfg.JSON = cfg.Log.JSON || g.LogJSON
	logCfg.Output = cmd.ErrOrStderr()

	return logger.WithContext(ctx, logger.New(logCfg)), cfg, nil
}

// loadSession loads the configuration, reads every input into a store and
// loads the abbreviation and place tables. Inputs are args, then the configured
// sources, then standard input.
//
// A source that fails after reading has started is not an error here: the
// partial store is returned, the failure is logged and ExitCode becomes
// ExitPartial. Failures before the first line is read are returned.
func loadSession(cmd *cobra.Command, args []string, g *GlobalOptions) (*session, error) {
	ctx, cfg, err := loadConfig(cmd, g)
	if err != nil {
		return nil, err
	}
	log := charmlog.FromContext(ctx)

	src, err := openSource(cmd, args, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var table *abbrev.Table
	if cfg.Abbreviations != "" {
		table, err = abbrev.Load(cfg.Abbreviations)
		if err != nil {
			return nil, fmt.Errorf("loading abbreviations: %w", err)
		}
		log.Debug("loaded abbreviations", "path", cfg.Abbreviations, "count", table.Len())
	}

	var placeTable *places.Table
	if cfg.Places != "" {
		placeTable, err = places.Load(cfg.Places)
		if err != nil {
			return nil, fmt.Errorf("loading places: %w", err)
		}
		log.Debug("loaded places", "path", cfg.Places, "count", placeTable.Len())
	}

	st := store.New()
	res, err := ingest.Run(ctx, src, parser.New(cfg.ParserOptions()...), st)

	var srcErr *ingest.SourceError
	switch {
	case err == nil:
	case errors.As(err, &srcErr) && srcErr.Line == 0:
		return nil, fmt.Errorf("no input could be read: %w", err)
	case errors.As(err, &srcErr):
		log.Warn("input incomplete", "source", srcErr.Source, "line", srcErr.Line, "err", srcErr.Err)
		ExitCode = ExitPartial
	default:
		return nil, fmt.Errorf("reading input: %w", err)
	}

	log.Debug("loaded messages",
		"messages", res.Appended,
		"lines", res.LinesRead,
		"skipped", res.TotalSkipped())

	return &session{
		ctx:        ctx,
		cfg:        cfg,
		configFile: g.ConfigFile,
		store:      st,
		result:     res,
		sourceErr:  err,
		abbrev:     table,
		places:     placeTable,
	}, nil
}

// openSource picks the line source for a run. Files must be readable up
// front so a typo or a permission problem fails before the UI starts.
func openSource(cmd *cobra.Command, args []string, cfg *config.Config) (parser.LineSource, error) {
	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Sources
	}

	if len(patterns) == 0 {
		in := cmd.InOrStdin()
		if isTerminal(in) {
			return nil, errors.New("no input: give log files as arguments, set sources in the config, or pipe data on stdin")
		}
		return parser.NewReaderSource(parser.StdinName, in), nil
	}

	files, err := parser.ExpandGlobs(patterns)
	if err != nil {
		return nil, fmt.Errorf("expanding sources: %w", err)
	}
	for _, f := range files {
		if err := checkReadable(f); err != nil {
			return nil, fmt.Errorf("opening source: %w", err)
		}
	}
	return parser.NewFileSource(files), nil
}

// checkReadable opens path and rejects directories.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColor resolves a --color flag value against the writer.
func useColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return isTerminal(w) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid color mode %q (use auto, always or never)", mode)
	}
}
