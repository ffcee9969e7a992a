package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"codereview/internal/cache"
	"codereview/internal/config"
	"codereview/internal/diagfmt"
	"codereview/internal/discover"
	"codereview/internal/format"
	"codereview/internal/observ"
	"codereview/internal/review"
	"codereview/internal/source"
	"codereview/internal/trace"
	"codereview/internal/version"
)

const checkUsage = "usage: codereview check <directory>"

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <directory>",
		Short: "Review every C++ file under a directory",
		Long: `Review walks the directory recursively, checks every .cpp, .h, .hpp and
.inl file and prints the violations grouped by file. A missing or invalid
directory is reported without scanning.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	addScanFlags(cmd)
	cmd.Flags().String("format", "text", "output format (text|short|json|sarif)")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("show-source", false, "quote the offending source line under each diagnostic")
	cmd.Flags().Bool("fail-on-diagnostics", false, "exit with status 1 when any diagnostic or failure is found")
	cmd.Flags().String("ui", "off", "progress view (auto|on|off)")
	return cmd
}

// addScanFlags registers the flags shared by check and watch.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse results of unchanged files from the on-disk cache")
	cmd.Flags().String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/codereview)")
	cmd.Flags().Int("max-line-length", format.DefaultMaxLineLength, "maximum line length")
	cmd.Flags().String("measure", string(format.MeasureRunes), "line length measure (runes|cells)")
	cmd.Flags().Bool("indent", false, "require indentation in multiples of the indent width")
	cmd.Flags().Bool("mixed-indent", false, "forbid mixing tabs and spaces in indentation")
	cmd.Flags().StringSlice("ext", nil, "file extensions to review (default .cpp,.h,.hpp,.inl)")
	cmd.Flags().Int("max-diagnostics", 0, "maximum diagnostics kept per file (0=all)")
}

// scanSetup is everything resolved from config and flags before a scan.
type scanSetup struct {
	root     string
	settings config.Settings
	cache    *cache.DiskCache
}

// resolveRoot validates the directory argument. A bad argument is
// reported on stderr and yields ok=false; it is never an error.
func resolveRoot(cmd *cobra.Command, args []string) (string, bool) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), checkUsage)
		return "", false
	}
	root := args[0]
	st, err := os.Stat(root)
	switch {
	case err != nil:
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", fmt.Errorf("%w: %w", review.ErrInvalidArgument, err))
		return "", false
	case !st.IsDir():
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v: %s is not a directory\n", review.ErrInvalidArgument, root)
		return "", false
	}
	return root, true
}

func loadSetup(cmd *cobra.Command, root string) (*scanSetup, error) {
	settings := config.DefaultSettings()

	noConfig, err := cmd.Root().PersistentFlags().GetBool("no-config")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if !noConfig {
		var file *config.File
		if configPath != "" {
			file, err = config.Load(configPath)
		} else {
			file, err = config.Discover(root)
		}
		if err != nil {
			return nil, err
		}
		file.Apply(&settings)
	}

	if err := applyScanFlags(cmd, &settings); err != nil {
		return nil, err
	}

	setup := &scanSetup{root: root, settings: settings}

	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if useCache || cacheDir != "" {
		if cacheDir != "" {
			setup.cache, err = cache.OpenDir(cacheDir)
		} else {
			setup.cache, err = cache.Open("codereview")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
	}
	return setup, nil
}

// applyScanFlags lets explicitly set flags override config values.
func applyScanFlags(cmd *cobra.Command, s *config.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
		s.Jobs = jobs
	}
	if flags.Changed("max-line-length") {
		n, err := flags.GetInt("max-line-length")
		if err != nil {
			return fmt.Errorf("failed to get max-line-length flag: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("--max-line-length must be positive")
		}
		s.Review.Format.MaxLineLength = n
	}
	if flags.Changed("measure") {
		v, err := flags.GetString("measure")
		if err != nil {
			return fmt.Errorf("failed to get measure flag: %w", err)
		}
		m, err := format.ParseMeasure(v)
		if err != nil {
			return err
		}
		s.Review.Format.Measure = m
	}
	if flags.Changed("indent") {
		v, err := flags.GetBool("indent")
		if err != nil {
			return fmt.Errorf("failed to get indent flag: %w", err)
		}
		s.Review.Format.Indent = v
	}
	if flags.Changed("mixed-indent") {
		v, err := flags.GetBool("mixed-indent")
		if err != nil {
			return fmt.Errorf("failed to get mixed-indent flag: %w", err)
		}
		s.Review.Format.MixedIndent = v
	}
	if flags.Changed("ext") {
		v, err := flags.GetStringSlice("ext")
		if err != nil {
			return fmt.Errorf("failed to get ext flag: %w", err)
		}
		s.Discover.Extensions = v
	}
	if flags.Changed("max-diagnostics") {
		v, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		s.Review.MaxDiagnostics = v
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	root, ok := resolveRoot(cmd, args)
	if !ok {
		return nil
	}

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	outFormat, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	showSource, err := cmd.Flags().GetBool("show-source")
	if err != nil {
		return fmt.Errorf("failed to get show-source flag: %w", err)
	}
	failOnDiagnostics, err := cmd.Flags().GetBool("fail-on-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get fail-on-diagnostics flag: %w", err)
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}

	setup, err := loadSetup(cmd, root)
	if err != nil {
		return err
	}

	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer stopTrace()
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProf()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}
	var fileSet *source.FileSet
	if showSource {
		fileSet = source.NewFileSetWithBase(root)
	}

	res, walkErr, err := scan(ctx, setup, scanOptions{
		timer:   timer,
		fileSet: fileSet,
		ui:      mode,
		title:   "reviewing " + root,
	})
	if err != nil {
		return err
	}
	if walkErr != nil && !quiet {
		for _, line := range strings.Split(walkErr.Error(), "\n") {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", line)
		}
	}

	pathMode := source.PathModeAsGiven
	if fullPath {
		pathMode = source.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	if !(quiet && res.Clean() && outFormat == diagfmt.FormatText) {
		renderTimer := timer
		var phase int
		if renderTimer != nil {
			phase = renderTimer.Begin("render")
		}
		err := diagfmt.Write(out, res, diagfmt.Options{
			Format: outFormat,
			Text: diagfmt.TextOpts{
				Color:      colored,
				PathMode:   pathMode,
				BaseDir:    root,
				ShowSource: showSource,
				FileSet:    fileSet,
			},
			JSON: diagfmt.JSONOpts{PathMode: pathMode, BaseDir: root},
			Sarif: diagfmt.SarifRunMeta{
				ToolName:       "codereview",
				ToolVersion:    version.Version,
				InvocationArgs: os.Args[1:],
				PathMode:       pathMode,
				BaseDir:        root,
			},
		})
		if renderTimer != nil {
			renderTimer.End(phase, string(outFormat))
		}
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if failOnDiagnostics && !res.Clean() {
		return exitError{code: 1}
	}
	return nil
}

type scanOptions struct {
	timer   *observ.Timer
	fileSet *source.FileSet
	ui      uiMode
	title   string
}

// scan walks setup.root and reviews every candidate. walkErr collects
// directories that could not be read; err is a fatal error.
func scan(ctx context.Context, setup *scanSetup, so scanOptions) (res *review.Result, walkErr, err error) {
	ctx, span := trace.Start(ctx, trace.ScopeRun, "scan")
	span.Set("root", setup.root)
	defer span.End("")

	walker, err := discover.New(setup.root, setup.settings.Discover)
	if err != nil {
		return nil, nil, err
	}
	opts := review.TreeOptions{
		Options: setup.settings.Review,
		Jobs:    setup.settings.Jobs,
		Cache:   setup.cache,
		FileSet: so.fileSet,
		Timer:   so.timer,
	}

	paths := walker.Paths(ctx)
	if so.ui != uiModeOff && shouldUseTUI(so.ui) {
		res, err = runReviewWithUI(ctx, so.title, paths, opts)
	} else {
		res, err = review.ReviewTree(ctx, paths, opts)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return res, walker.Err(), fmt.Errorf("scan interrupted: %w", err)
		}
		return res, walker.Err(), err
	}
	span.Set("files", fmt.Sprint(res.Scanned))
	return res, walker.Err(), nil
}
