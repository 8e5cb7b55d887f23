// clinfo: report the platforms and devices an OpenCL runtime exposes
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wattfource/clinfo/internal/clrt"
	"github.com/wattfource/clinfo/internal/config"
	"github.com/wattfource/clinfo/internal/icd"
	"github.com/wattfource/clinfo/internal/logging"
	"github.com/wattfource/clinfo/internal/report"
	"github.com/wattfource/clinfo/internal/tui"
)

// Version is set at build time
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks a command line the parser rejected
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// reportedError has already been shown on stderr
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// run executes one invocation and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	helpShown := false
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	help := root.HelpFunc()
	root.SetHelpFunc(func(c *cobra.Command, args []string) {
		helpShown = true
		c.SetOut(stderr)
		help(c, args)
	})

	err := root.Execute()
	if helpShown {
		return 1
	}
	if err == nil {
		return 0
	}

	var usage usageError
	var reported reportedError
	switch {
	case errors.As(err, &usage):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		cmd, _, findErr := root.Find(args)
		if findErr != nil || cmd == nil {
			cmd = root
		}
		cmd.SetOut(stderr)
		cmd.Usage()
	case errors.As(err, &reported):
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clinfo",
		Short: "Report the platforms and devices an OpenCL runtime exposes",
		Long: `clinfo queries the installed OpenCL runtime for every platform and
device it knows about and prints their properties as a fixed-layout report.
Diagnostics for properties that could not be read go to stderr.

The opencl backend is only built with cgo and -tags opencl; -tags wgpu adds
the WebGPU backend. Without either, use --fixture to replay a recorded runtime.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Errorf("unexpected argument %q", args[0])}
			}
			return nil
		},
		RunE: runReport,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ~/.config/clinfo/config)")
	pf.String("backend", "", "Runtime backend: "+fmt.Sprint(clrt.Backends()))
	pf.String("fixture", "", "Replay a runtime from a YAML description")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.BoolP("image-formats", "i", false, "List the supported image formats of every device")
	pf.String("image-access", "", "Image access for --image-formats: read-only, write-only or read-write")
	pf.String("image-type", "", "Image kind for --image-formats: 2d or 3d")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the report in a terminal browser",
		Args:  noArgs,
		RunE:  runBrowse,
	}

	icdCmd := &cobra.Command{
		Use:   "icd",
		Short: "List OpenCL driver registrations and display controllers",
		Args:  noArgs,
		RunE:  runICD,
	}
	icdCmd.Flags().Bool("json", false, "Output as JSON")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  noArgs,
		RunE:  runConfig,
	}
	configCmd.Flags().Bool("save", false, "Write the effective configuration to the config file")

	rootCmd.AddCommand(browseCmd, icdCmd, configCmd)
	return rootCmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError{fmt.Errorf("unexpected argument %q for %s", args[0], cmd.CommandPath())}
	}
	return nil
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	flags := cmd.Flags()

	// Validation runs again once the flags are applied
	var cfg *config.Config
	var err error
	path, _ := flags.GetString("config")
	if path == "" {
		_, path = config.Paths()
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(path)
	}
	if cfg == nil {
		return nil, path, err
	}

	if flags.Changed("backend") {
		cfg.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("fixture") {
		cfg.Fixture, _ = flags.GetString("fixture")
		if !flags.Changed("backend") {
			cfg.Backend = "fixture"
		}
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("image-formats") {
		cfg.ImageFormats, _ = flags.GetBool("image-formats")
	}
	if flags.Changed("image-access") {
		cfg.ImageAccess, _ = flags.GetString("image-access")
	}
	if flags.Changed("image-type") {
		cfg.ImageType, _ = flags.GetString("image-type")
	}

	if err := cfg.Validate(); err != nil {
		return nil, path, usageError{err}
	}
	return cfg, path, nil
}

func initLogging(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageError{err}
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	if cfg.LogFile != "" {
		logCfg.FilePath = cfg.LogFile
	}
	return logging.Init(logCfg)
}

// session is the state shared by the commands that produce a report
type session struct {
	cfg *config.Config
	log *logging.Logger
	rt  clrt.Runtime
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := initLogging(cfg); err != nil {
		return nil, err
	}
	log := logging.WithComponent("main")

	rt, err := clrt.Open(cfg.Backend, clrt.OpenConfig{FixturePath: cfg.Fixture})
	if err != nil {
		logging.Errorf("open backend %s: %v", cfg.Backend, err)
		logging.Close()
		return nil, fmt.Errorf("open backend %s: %w", cfg.Backend, err)
	}
	log.WithField("backend", cfg.Backend).Info("backend opened")

	return &session{cfg: cfg, log: log, rt: rt}, nil
}

func (s *session) Close() {
	if err := s.rt.Close(); err != nil {
		logging.Warnf("close backend: %v", err)
	}
	logging.Close()
}

func (s *session) reporter(out, diag io.Writer) *report.Reporter {
	return report.New(s.rt, out, diag, report.Options{
		ImageFormats: s.cfg.ImageFormats,
		Image:        report.ImageOptions{Flags: s.cfg.MemFlags(), Type: s.cfg.MemObjectType()},
	})
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.reporter(cmd.OutOrStdout(), cmd.ErrOrStderr()).Run(); err != nil {
		s.log.Errorf("report failed: %v", err)
		return reportedError{err}
	}
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var out, diag bytes.Buffer
	if err := s.reporter(&out, &diag).Run(); err != nil {
		s.log.Errorf("report failed: %v", err)
	}

	return tui.Run(tui.Input{
		Title:       "clinfo " + Version,
		Report:      out.String(),
		Diagnostics: diag.String(),
		Drivers:     icd.Collect(clrt.Backends()),
		LogPath:     s.log.LogPath(),
	})
}

func runICD(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	inv := icd.Collect(clrt.Backends())
	if jsonOutput {
		data, err := inv.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), inv.Summary())
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	save, _ := cmd.Flags().GetBool("save")

	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	values := cfg.Values()
	for _, key := range config.Keys() {
		fmt.Fprintf(out, "%s=%s\n", key, values[key])
	}

	if save {
		if cmd.Flags().Changed("config") {
			err = config.SaveFile(cfg, path)
		} else {
			err = config.Save(cfg)
		}
		if err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", path)
	}
	return nil
}
