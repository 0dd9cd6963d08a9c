package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/staffdesk/internal/app"
	"github.com/and161185/staffdesk/internal/config"
	"github.com/and161185/staffdesk/internal/output"
	"github.com/and161185/staffdesk/internal/tokenstore"
)

// cli holds everything a command invocation shares. In the shell one cli
// (and therefore one App) lives for the whole session.
type cli struct {
	in     io.Reader
	lines  *bufio.Reader
	out    io.Writer
	errOut io.Writer

	cfgFile   string
	verbose   bool
	ephemeral bool
	baseURL   string
	color     string

	interactive bool

	cfg     *config.Config
	app     *app.App
	printer *output.Printer
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{in: in, lines: bufio.NewReader(in), out: out, errOut: errOut}
}

// newRootCmd builds a fresh command tree over c.
func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "sd",
		Short: "staffdesk employee records client",
		Long: `sd manages employee records stored in a staffdesk data service.

Sign in once with 'sd login'; the session token is kept in the state
directory and revalidated before every protected command.

Example usage:
  sd login -e ana@example.com -p secret
  sd list -q lee
  sd add --first-name Ana --last-name Lee --age 30 --gender Female --role Engineer ...
  sd edit <id> --salary 65000
  sd rm <id>
  sd shell`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.init()
		},
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", c.cfgFile, "config file (default is sd.yaml in ~/.config/staffdesk)")
	pf.BoolVarP(&c.verbose, "verbose", "v", c.verbose, "debug logging to stderr")
	pf.BoolVar(&c.ephemeral, "ephemeral", c.ephemeral, "keep the session token in memory only")
	pf.StringVar(&c.baseURL, "api", c.baseURL, "data service base URL (overrides api.base_url)")
	pf.StringVar(&c.color, "color", c.color, "color output: auto, always, never")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newStatusCmd(c),
		newRefreshCmd(c),
		newClearErrorCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newAddCmd(c),
		newEditCmd(c),
		newRmCmd(c),
		newShellCmd(c),
		newVersionCmd(),
	)
	return root
}

// init loads configuration and builds the App once.
func (c *cli) init() error {
	if c.app != nil {
		return nil
	}

	v := viper.New()
	if c.baseURL != "" {
		v.Set("api.base_url", c.baseURL)
	}
	if c.color != "" {
		v.Set("output.color", c.color)
	}
	cfg, err := config.Load(v, c.cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "check sd.yaml and SD_* environment variables",
			ExitCode:   output.ExitConfigError,
			Err:        err,
		}
	}
	c.cfg = cfg

	mode, _ := output.ParseColorMode(cfg.Output.Color)
	c.printer = output.NewPrinter(c.out, c.errOut, mode)

	log, err := newLogger(c.errOut, cfg.Logging.Level, c.verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	var tokens tokenstore.Store = tokenstore.NewFile(cfg.State.Dir)
	if c.ephemeral {
		tokens = tokenstore.NewMemory("")
	}

	pending := func() {
		log.Debug("checking session")
		if c.interactive {
			c.printer.Pending("checking session")
		}
	}
	a, err := app.New(app.Options{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		SessionTTL: cfg.Session.TTL,
		Tokens:     tokens,
		Logger:     log,
		OnPending:  pending,
	})
	if err != nil {
		return &output.CLIError{Summary: "invalid data service URL", Detail: err.Error(), ExitCode: output.ExitConfigError, Err: err}
	}
	c.app = a
	return nil
}

func newLogger(w io.Writer, level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// protected wraps run so it executes only after the guard admits the session.
func (c *cli) protected(run func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return c.app.Guard.Protect(cmd.Context(), func(ctx context.Context) error {
			return run(ctx, cmd, args)
		})
	}
}

func (c *cli) close() {
	if c.app != nil {
		_ = c.app.Close()
	}
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	c := newCLI(in, out, errOut)
	defer c.close()
	return c.execute(ctx, args)
}

func (c *cli) execute(ctx context.Context, args []string) int {
	root := newRootCmd(c)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		c.report(err)
		return output.FromError(err).ExitCode
	}
	return output.ExitSuccess
}

func (c *cli) report(err error) {
	p := c.printer
	if p == nil {
		p = output.NewPrinter(c.out, c.errOut, output.ColorNever)
	}
	p.FormatError(err)
}

func stdio() (io.Reader, io.Writer, io.Writer) { return os.Stdin, os.Stdout, os.Stderr }
