// Package cli implements the librecur command-line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cyp0633/librecur/internal/config"
	"github.com/cyp0633/librecur/recurrence"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// app carries state shared by every command. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	locale     string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "librecur",
		Short: "Build, summarize and convert task recurrence rules",
		Long: `librecur edits the recurrence rules attached to tasks.

Rules are read from stdin and written to stdout as JSON in the task API's
wire format. They can be summarized in English or German and exported as
RRULE, iCalendar or xCal.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.locale, "locale", "", "Summary language (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.presetCmd(),
		a.detectCmd(),
		a.summarizeCmd(),
		a.editCmd(),
		a.rruleCmd(),
		a.icalCmd(),
		a.xcalCmd(),
	)
	return root
}

// Execute runs the root command
func Execute(version string) error {
	root := newRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.locale != "" {
		cfg.Locale = a.locale
		cfg.CatalogFile = ""
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	level := cfg.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.logger.Debug("configuration loaded", "locale", cfg.Locale, "catalog_file", cfg.CatalogFile, "strategy", cfg.Strategy)
	return nil
}

func (a *app) summarizer(reference time.Time) (*recurrence.Summarizer, error) {
	catalog, err := a.cfg.Catalog()
	if err != nil {
		return nil, err
	}
	return recurrence.NewSummarizer(
		recurrence.WithTranslator(catalog),
		recurrence.WithDateFormatter(catalog),
		recurrence.WithReference(reference),
		recurrence.WithLogger(a.logger),
	), nil
}

// anchor resolves the --ref flag against the current time.
func (a *app) anchor(cmd *cobra.Command) time.Time {
	ref, _ := cmd.Flags().GetString("ref")
	return recurrence.ResolveAnchor(ref, a.now())
}

// strategy returns --strategy when set, else fallback, else the configured
// default.
func (a *app) strategy(cmd *cobra.Command, fallback mo.Option[recurrence.Strategy]) (mo.Option[recurrence.Strategy], error) {
	if cmd.Flags().Changed("strategy") {
		raw, _ := cmd.Flags().GetString("strategy")
		s, err := recurrence.ParseStrategy(raw)
		if err != nil {
			return mo.None[recurrence.Strategy](), err
		}
		return mo.Some(s), nil
	}
	if fallback.IsPresent() {
		return fallback, nil
	}
	return mo.Some(a.cfg.DefaultStrategy()), nil
}

func addRefFlag(cmd *cobra.Command) {
	cmd.Flags().String("ref", "", "Reference date (YYYY-MM-DD or RFC 3339); defaults to now")
}

// readRule decodes a rule from r. JSON null yields a nil rule.
func readRule(r io.Reader) (*recurrence.Rule, error) {
	var rule *recurrence.Rule
	if err := json.NewDecoder(r).Decode(&rule); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("expected a recurrence rule on stdin")
		}
		return nil, fmt.Errorf("failed to read rule: %w", err)
	}
	return rule, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
