package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/rearrange/internal/app"
	"github.com/dshills/rearrange/internal/config"
	"github.com/dshills/rearrange/internal/logging"
	"github.com/dshills/rearrange/internal/watcher"
)

type options struct {
	configPath string
	strategy   string
	logLevel   string
	logJSON    bool
	dryRun     bool
	diff       bool
	watch      bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rearrange [flags] path...",
		Short: "Reorder declarations in source files by configurable rules",
		Long: `Rearrange reorders the declarations of Go and Java source files into
sections defined by match rules, keeping comments and spacing attached.

Directories are searched for supported files; hidden directories are
skipped. Rules are read from .rearrange.toml or .rearrange.yaml in the
working directory unless --config is given.`,
		Example: `  rearrange main.go           Arrange a file in place
  rearrange -n -d .           Show what would change
  rearrange -w ./internal     Arrange again whenever files change`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	f.StringVar(&opts.strategy, "strategy", "", "Write strategy (auto, snapshot, marker)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")
	f.BoolVarP(&opts.dryRun, "dry-run", "n", false, "List files that would change without writing them")
	f.BoolVarP(&opts.diff, "diff", "d", false, "Print a unified diff of each change")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Keep running and arrange files again when they change")

	return cmd
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(ctx context.Context, opts options) (*config.Config, error) {
	var copts []config.Option
	if opts.configPath != "" {
		copts = append(copts, config.WithPath(opts.configPath))
	}
	cfg := config.New(copts...)
	if err := cfg.Load(ctx); err != nil {
		return nil, err
	}

	overrides := map[string]any{}
	if opts.strategy != "" {
		overrides["engine.strategy"] = opts.strategy
	}
	if opts.logLevel != "" {
		overrides["logging.level"] = opts.logLevel
	}
	if opts.logJSON {
		overrides["logging.json"] = true
	}
	for path, v := range overrides {
		if err := cfg.Set(path, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func run(ctx context.Context, stdout, stderr io.Writer, opts options, paths []string) error {
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return err
	}

	lc := cfg.Logging()
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(lc.Level),
		Output: stderr,
		JSON:   lc.JSON,
	})
	defer log.Sync()

	runner, err := app.NewRunner(cfg, app.WithLogger(log), app.WithDryRun(opts.dryRun))
	if err != nil {
		return err
	}
	defer func() { runner.Close() }()

	outcomes, err := runner.ArrangePaths(ctx, paths)
	report(stdout, opts, outcomes)
	log.Info("%s", runner.Metrics().Snapshot())
	if !opts.watch {
		return err
	}
	if err != nil {
		log.Warn("%v", err)
	}

	return watch(ctx, stdout, log, cfg, opts, &runner, outcomes)
}

func report(w io.Writer, opts options, outcomes []*app.Outcome) {
	for _, out := range outcomes {
		if !out.Changed {
			continue
		}
		if opts.diff {
			fmt.Fprint(w, out.Diff())
		} else if opts.dryRun {
			fmt.Fprintln(w, out.Path)
		}
	}
}

// watch arranges watched files again when they change. A change to the
// configuration file rebuilds the runner.
func watch(ctx context.Context, stdout io.Writer, log *logging.Logger, cfg *config.Config, opts options, runner **app.Runner, outcomes []*app.Outcome) error {
	w, err := watcher.New(watcher.WithLogger(log))
	if err != nil {
		return err
	}
	defer w.Close()

	files := make([]string, 0, len(outcomes))
	for _, out := range outcomes {
		files = append(files, out.Path)
	}
	if p := cfg.Path(); p != "" {
		files = append(files, p)
	}
	sort.Strings(files)
	for _, f := range files {
		if err := w.Add(f); err != nil {
			log.Warn("watch %s: %v", f, err)
		}
	}

	configPath := absPath(cfg.Path())
	log.Info("watching %d files", len(files))
	return w.Run(ctx, func(ev watcher.Event) {
		if !present(ev) {
			log.Debug("%s: %s", ev.Path, ev.Op)
			return
		}
		if err := w.Add(ev.Path); err != nil {
			log.Warn("watch %s: %v", ev.Path, err)
		}
		if configPath != "" && absPath(ev.Path) == configPath {
			reload(ctx, log, opts, runner)
			return
		}
		out, err := (*runner).ArrangeFile(ctx, ev.Path)
		if err != nil {
			log.Warn("%v", err)
			return
		}
		report(stdout, opts, []*app.Outcome{out})
	})
}

// present reports whether the file an event names is still there. Editors
// that save by renaming a new file over the old one produce a rename or
// remove for a path that exists again.
func present(ev watcher.Event) bool {
	if !ev.Op.Has(watcher.OpRemove) && !ev.Op.Has(watcher.OpRename) {
		return true
	}
	info, err := os.Stat(ev.Path)
	return err == nil && info.Mode().IsRegular()
}

func reload(ctx context.Context, log *logging.Logger, opts options, runner **app.Runner) {
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		log.Warn("reload configuration: %v", err)
		return
	}
	next, err := app.NewRunner(cfg, app.WithLogger(log), app.WithDryRun(opts.dryRun))
	if err != nil {
		log.Warn("reload configuration: %v", err)
		return
	}
	(*runner).Close()
	*runner = next
	log.Info("configuration reloaded from %s", cfg.Path())
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
