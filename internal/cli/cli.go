package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/rawgridgo/internal/app"
	"github.com/specialistvlad/rawgridgo/internal/rawio"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	maxDepth   int
}

// Execute runs the command line described by args. Usage errors are
// returned as *ExitError with code 2.
func Execute(ctx context.Context, args []string, outW io.Writer) (err error) {
	// The app panics on programmer errors found at startup; surface them as
	// an ordinary failure.
	defer func() {
		if r := recover(); r != nil {
			err = &ExitError{Code: 1, Message: fmt.Sprintf("application startup panicked: %v", r)}
		}
	}()

	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	root := NewRootCommand(outW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		if isUsageError(err) {
			return &ExitError{Code: 2, Message: err.Error()}
		}
		return err
	}
	return nil
}

// NewRootCommand builds the rawgrid command tree.
func NewRootCommand(outW io.Writer) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "rawgrid",
		Short: "A node-graph editor core for 8-bit grayscale RAW images",
		Long: `rawgrid runs image-processing graphs of blocks (load, brightness,
convolution, threshold, difference, histogram, save) connected port to port.
Changing a block re-evaluates everything downstream of it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(outW)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to a YAML configuration file.")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&flags.maxDepth, "max-depth", 0, "Maximum cascade depth. 0 keeps the built-in limit.")

	root.AddCommand(
		newRunCommand(flags, outW),
		newServeCommand(flags, outW),
		newDetectCommand(outW),
		newKindsCommand(flags, outW),
	)
	return root
}

// config resolves the effective configuration: defaults, then the YAML
// file, then any flag set explicitly on the command line.
func (f *globalFlags) config(cmd *cobra.Command, apply func(cfg *app.Config)) (app.Config, error) {
	cfg, err := app.LoadConfig(f.configPath, app.DefaultConfig())
	if err != nil {
		return cfg, &ExitError{Code: 2, Message: err.Error()}
	}
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = strings.ToLower(f.logLevel)
	}
	if changed("log-format") {
		cfg.LogFormat = strings.ToLower(f.logFormat)
	}
	if changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if apply != nil {
		apply(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}

func newRunCommand(flags *globalFlags, outW io.Writer) *cobra.Command {
	opts := app.RunOptions{}
	cmd := &cobra.Command{
		Use:   "run WORKFLOW",
		Short: "Load a workflow file, or every workflow in a directory",
		Long: `Loads .json or .hcl workflows. Loading alone computes nothing; pass
--process to run a cascade from every source block, and --out to export the
image of every save block.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(cmd, nil)
			if err != nil {
				return err
			}
			opts.Workflow = args[0]
			report, err := app.NewApp(cmd.ErrOrStderr(), cfg).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(outW, "%d workflow(s), %d block(s): %d processed, %d skipped\n",
				report.Files, report.Blocks, report.Processed, report.Skipped)
			for _, p := range report.Saved {
				fmt.Fprintf(outW, "saved %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Process, "process", false, "Run a cascade from every block without inputs.")
	cmd.Flags().StringVar(&opts.OutDir, "out", "", "Directory receiving the images of save blocks.")
	cmd.Flags().StringVar(&opts.Format, "format", "png", "Export format: png, bmp, tiff or raw.")
	return cmd
}

func newServeCommand(flags *globalFlags, outW io.Writer) *cobra.Command {
	var (
		workflowPath string
		addr         string
		watch        bool
		notifyURL    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			cfg, err := flags.config(cmd, func(cfg *app.Config) {
				if changed("addr") {
					cfg.Addr = addr
				}
				if changed("watch") {
					cfg.Watch = watch
				}
				if changed("notify-url") {
					cfg.NotifyURL = notifyURL
				}
			})
			if err != nil {
				return err
			}
			return app.NewApp(outW, cfg).Serve(cmd.Context(), app.ServeOptions{Workflow: workflowPath})
		},
	}
	cmd.Flags().StringVar(&workflowPath, "workflow", "", "Workflow file to load at startup.")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address.")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reprocess load blocks when their RAW file changes.")
	cmd.Flags().StringVar(&notifyURL, "notify-url", "", "socket.io server receiving block updates.")
	return cmd
}

func newDetectCommand(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "detect FILE...",
		Short: "Infer the dimensions of RAW files from their size",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				w, h, err := rawio.DetectFile(path)
				if err != nil {
					fmt.Fprintf(outW, "%s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Fprintf(outW, "%s: %dx%d\n", path, w, h)
			}
			if failed > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d file(s) could not be detected", failed, len(args))}
			}
			return nil
		},
	}
}

func newKindsCommand(flags *globalFlags, outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the available block kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(cmd, nil)
			if err != nil {
				return err
			}
			reg := app.NewApp(cmd.ErrOrStderr(), cfg).Registry()
			tw := tabwriter.NewWriter(outW, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTITLE\tINPUTS\tOUTPUTS\tPARAMETERS")
			for _, k := range reg.Kinds() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					k.Name, k.Title, list(k.Inputs), list(k.Outputs), list(slices.Sorted(maps.Keys(k.Schema))))
			}
			return tw.Flush()
		},
	}
}

func list(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}

// isUsageError reports whether cobra rejected the arguments themselves.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "flag needs an argument", "invalid argument", "accepts ", "requires at least"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
