// Package cmd implements the cellrun CLI: the two positional invocation
// forms from spec.md §6, the version subcommand, and the hidden __init__
// subcommand the supervisor re-execs itself as.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cellrun/logging"
	"cellrun/policy"
	"cellrun/process"
	"cellrun/spec"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// Global flags.
var (
	globalLogLevel  string
	globalLogFormat string
	noRawTTY        bool
)

// rootCmd is the base command for cellrun. It intentionally has no
// container-lifecycle subcommands (create/start/delete/list): spec.md scopes
// this to a single one-shot execution.
var rootCmd = &cobra.Command{
	Use:   "cellrun <rootfs> [profile] <cmd> [args...]",
	Short: "Linux process sandbox",
	Long: `cellrun launches a command inside an isolated execution environment:
fresh UTS/mount/PID namespaces, a chroot'd filesystem root, a seccomp-bpf
syscall filter, and rlimit-based resource caps.

Two invocation forms are accepted:

  cellrun <rootfs> <profile> <cmd> [args...]
  cellrun <rootfs> <cmd> [args...]

profile is one of open, restricted, locked. In the second form the profile
is resolved from the SANDBOX_SECCOMP_MODE environment variable, then
/etc/sandbox_policy, then defaults to open.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.MinimumNArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
	RunE: runSandbox,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "log output format (text or json)")
	rootCmd.Flags().BoolVar(&noRawTTY, "no-raw-tty", false, "do not put an interactive stdin into raw mode")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupLogging() {
	logging.SetDefault(logging.NewLogger(logging.Config{
		Level:  logging.ParseLevel(globalLogLevel),
		Format: globalLogFormat,
		Output: os.Stderr,
	}))
}

// runSandbox parses the invocation into a SandboxRequest and runs it to
// completion, exiting with the child's own status.
func runSandbox(cmd *cobra.Command, args []string) error {
	req, err := parseRequest(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	supervisor := process.NewSupervisor(logging.Default())
	supervisor.NoRawTTY = noRawTTY

	report, err := supervisor.Run(ctx, req)
	if err != nil {
		return err
	}

	logging.Default().Debug("sandbox finished", slog.String("result", report.String()))

	if report.Signaled {
		if sig, ok := report.Signal.(syscall.Signal); ok {
			os.Exit(128 + int(sig))
		}
	}
	os.Exit(report.ExitCode)
	return nil
}

// parseRequest implements spec.md §6's two positional invocation forms:
//
//	<rootfs> <profile> <cmd> [args...]
//	<rootfs> <cmd> [args...]
//
// Form A is recognized when the second token parses as one of the three
// named profiles and at least one command word follows; otherwise form B
// applies and the profile is resolved via the policy package's fallback
// chain (env var, then policy file, then default).
func parseRequest(args []string) (*spec.SandboxRequest, error) {
	rootfs := args[0]
	caps := capsFromEnv()

	if len(args) >= 3 {
		if p, err := spec.ParseProfile(args[1]); err == nil {
			return &spec.SandboxRequest{
				Rootfs:  rootfs,
				Profile: p,
				Argv:    args[2:],
				Caps:    caps,
			}, nil
		}
	}

	return &spec.SandboxRequest{
		Rootfs:  rootfs,
		Profile: policy.Resolve(policy.DefaultPolicyFile),
		Argv:    args[1:],
		Caps:    caps,
	}, nil
}

func capsFromEnv() spec.ResourceCaps {
	caps, parseErrs := spec.CapsFromEnv()
	for _, err := range parseErrs {
		logging.Default().Warn("resource cap parse error", slog.String("error", err.Error()))
	}
	return caps
}
