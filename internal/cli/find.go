package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"foldersearch/internal/domain"
	"foldersearch/internal/eventbus"
	"foldersearch/internal/export"
	"foldersearch/internal/format"
	"foldersearch/internal/search"
)

// findOptions are the flags of the find command after config defaults and
// environment overrides were applied
type findOptions struct {
	settings  *settings
	request   domain.SearchRequest
	json      bool
	yaml      bool
	noHistory bool
	showSizes bool
	progress  bool
	colorize  bool
	errOut    io.Writer
}

func newFindCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find [dir]",
		Short: "Run one search and print the results",
		Long: `Find walks dir (default: the configured start directory) and prints every
match as soon as it is found. Press Ctrl+C to stop early.

Search options not given on the command line come from the config file.`,
		Example: `  foldersearch find -q report ~/docs
  foldersearch find -q TODO --mode contents --json .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			opts, err := resolveFindOptions(cmd, v, dir)
			if err != nil {
				return err
			}
			return runFind(cmd, opts)
		},
	}

	cmd.Flags().StringP("query", "q", "", "text to look for (required)")
	cmd.Flags().StringP("mode", "m", "", "what to match: files, folders, contents or all")
	cmd.Flags().Bool("case-sensitive", false, "match letter case exactly")
	cmd.Flags().Bool("recursive", true, "descend into subfolders")
	cmd.Flags().Bool("ignore-extension", true, "match file names without their extension")
	cmd.Flags().Bool("json", false, "print the results as a JSON array when the search ends")
	cmd.Flags().Bool("yaml", false, "print the results as YAML when the search ends")
	cmd.Flags().Bool("no-history", false, "do not record this run in the history")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

// resolveFindOptions merges flags, FOLDERSEARCH_* variables and the config
// file, in that order of precedence
func resolveFindOptions(cmd *cobra.Command, v *viper.Viper, dir string) (*findOptions, error) {
	s, err := loadSettings(v)
	if err != nil {
		return nil, err
	}

	query := v.GetString("query")
	if query == "" {
		return nil, errors.New("a query is required (use --query)")
	}

	startDir, err := resolveDir(dir, s.cfg)
	if err != nil {
		return nil, err
	}

	req := s.cfg.Search.Request(startDir, query)
	if v.IsSet("mode") {
		mode, err := domain.ParseSearchMode(v.GetString("mode"))
		if err != nil {
			return nil, err
		}
		req.Mode = mode
	}
	if v.IsSet("case-sensitive") {
		req.CaseSensitive = v.GetBool("case-sensitive")
	}
	if v.IsSet("recursive") {
		req.Recursive = v.GetBool("recursive")
	}
	if v.IsSet("ignore-extension") {
		req.IgnoreExtension = v.GetBool("ignore-extension")
	}

	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	stderrTTY := isatty.IsTerminal(os.Stderr.Fd())

	return &findOptions{
		settings:  s,
		request:   req,
		json:      v.GetBool("json"),
		yaml:      v.GetBool("yaml"),
		noHistory: v.GetBool("no-history"),
		showSizes: s.cfg.UI.ShowSizes,
		progress:  stderrTTY && cmd.ErrOrStderr() == os.Stderr,
		colorize:  stdoutTTY && cmd.OutOrStdout() == os.Stdout,
		errOut:    cmd.ErrOrStderr(),
	}, nil
}

func runFind(cmd *cobra.Command, opts *findOptions) error {
	s := opts.settings
	logger, err := s.newLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	rt, err := newRuntime(s.cfg, !opts.noHistory, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	listing := opts.json || opts.yaml

	p := newPrinter(out, opts.errOut, opts.colorize, opts.showSizes)
	var unsubs []func()
	if !listing {
		unsubs = append(unsubs, rt.bus.Subscribe(eventbus.EventResultFound, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.ResultFoundEvent); ok {
				p.result(event.Result)
			}
		}))
	}
	if opts.progress {
		unsubs = append(unsubs, rt.bus.Subscribe(eventbus.EventProgress, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.ProgressEvent); ok {
				p.progress(event.Progress)
			}
		}))
	}

	if _, err := rt.search.StartSearch(ctx, opts.request); err != nil {
		return err
	}
	rt.search.Wait()

	// deliver everything the run published before printing the summary
	rt.bus.Close()
	for _, unsub := range unsubs {
		unsub()
	}
	p.clearProgress()

	found := rt.search.Results().All()
	switch {
	case opts.json:
		if err := export.WriteJSON(out, found); err != nil {
			return err
		}
	case opts.yaml:
		if err := export.WriteYAML(out, found); err != nil {
			return err
		}
	}

	state := rt.search.State()
	p.summary(state, rt.search.Progress(), len(found))

	if state == domain.RunFailed {
		runErr := rt.search.LastError()
		var re *search.RunError
		if errors.As(runErr, &re) {
			return errors.New(re.Message())
		}
		return runErr
	}
	return nil
}

// printer writes results and progress for the find command
type printer struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	showSizes bool
	progLen   int

	folder *color.Color
	file   *color.Color
	size   *color.Color
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
}

func newPrinter(out, errOut io.Writer, colorize, showSizes bool) *printer {
	p := &printer{
		out:       out,
		errOut:    errOut,
		showSizes: showSizes,
		folder:    color.New(color.FgCyan, color.Bold),
		file:      color.New(color.Reset),
		size:      color.New(color.Faint),
		ok:        color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		fail:      color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.folder, p.file, p.size, p.ok, p.warn, p.fail} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) result(r domain.MatchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearProgressLocked()

	if r.Kind == domain.KindFolder {
		p.folder.Fprintf(p.out, "%s%c\n", r.Path, os.PathSeparator)
		return
	}
	p.file.Fprint(p.out, r.Path)
	if p.showSizes && r.HasSize() {
		p.size.Fprintf(p.out, "  %s", format.Size(r.SizeBytes, true))
	}
	fmt.Fprintln(p.out)
}

func (p *printer) progress(c domain.ProgressCounters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	line := fmt.Sprintf("%d folders, %d files  %s", c.FoldersVisited, c.FilesVisited, format.TruncateLeft(c.CurrentPath, 60))
	p.clearProgressLocked()
	fmt.Fprint(p.errOut, line)
	p.progLen = len(line)
}

func (p *printer) clearProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearProgressLocked()
}

func (p *printer) clearProgressLocked() {
	if p.progLen == 0 {
		return
	}
	fmt.Fprintf(p.errOut, "\r%*s\r", p.progLen, "")
	p.progLen = 0
}

func (p *printer) summary(state domain.RunState, c domain.ProgressCounters, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stateColor := p.ok
	switch state {
	case domain.RunCancelled:
		stateColor = p.warn
	case domain.RunFailed:
		stateColor = p.fail
	}
	stateColor.Fprintf(p.errOut, "Search %s.", state)
	fmt.Fprintf(p.errOut, " %d results, %d folders and %d files searched.\n", n, c.FoldersVisited, c.FilesVisited)
}
