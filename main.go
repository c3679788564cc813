package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"siteblock/pkg/blocker"
	"siteblock/pkg/blocklist"
	"siteblock/pkg/config"
	"siteblock/pkg/console"
	"siteblock/pkg/hostsedit"
	"siteblock/pkg/hostsfile"
	"siteblock/pkg/logger"
	"siteblock/pkg/version"
)

const (
	exitOK = iota
	exitUsage
	exitInvalidDomain
	exitPermission
	exitHostsFile
)

const importErrorLimit = 20

type options struct {
	block       []string
	unblock     []string
	list        bool
	watch       bool
	importFrom  string
	showVersion bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(stdin, stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	code := exitCode(err)
	switch code {
	case exitOK:
	case exitInvalidDomain:
		fmt.Fprintf(stderr, "Invalid domain: %v\n", err)
	case exitPermission:
		fmt.Fprintf(stderr, "Permission error: %v\nTry running as administrator/root.\n", err)
	case exitHostsFile:
		fmt.Fprintf(stderr, "Hosts file error: %v\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

func exitCode(err error) int {
	var invalidErr *hostsedit.InvalidDomainError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &invalidErr):
		return exitInvalidDomain
	case errors.Is(err, hostsfile.ErrPermission):
		return exitPermission
	case errors.Is(err, hostsfile.ErrFile):
		return exitHostsFile
	}
	return exitUsage
}

func newRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "siteblock",
		Short: "Block and unblock websites through the hosts file",
		Long: "siteblock redirects domains to a loopback address by adding tagged lines to the hosts file.\n" +
			"Without an operation flag it starts an interactive console.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.showVersion {
				_, err := fmt.Fprintln(stdout, version.SiteblockVersion)
				return err
			}
			return execute(cmd, opts, stdin, stdout)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.block, "block", nil, "domains or URLs to block")
	flags.StringSliceVar(&opts.unblock, "unblock", nil, "domains or URLs to unblock")
	flags.BoolVar(&opts.list, "list", false, "list blocked domains")
	flags.BoolVar(&opts.watch, "watch", false, "with --list, print the list again whenever the hosts file changes")
	flags.StringVar(&opts.importFrom, "import", "", "block every domain of a hosts-format list (file or http(s) URL)")
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	config.RegisterFlags(flags)
	cmd.MarkFlagsMutuallyExclusive("block", "unblock")

	return cmd
}

func execute(cmd *cobra.Command, opts *options, stdin io.Reader, stdout io.Writer) error {
	if opts.watch && !opts.list {
		return errors.New("--watch requires --list")
	}

	cfg, err := config.Setup(cmd.Flags())
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.Logging.Level, cfg.Logging.File)
	ctx := cmd.Context()

	store := hostsfile.NewFile(nil, cfg.Hosts.Path, cfg.Hosts.Backup)
	manager := blocker.New(store, hostsedit.New(cfg.Hosts.RedirectIP), log)
	log.Debug("using hosts file", "path", cfg.Hosts.Path, "backup", cfg.Hosts.Backup, "version", version.SiteblockVersion)

	if len(opts.block) == 0 && len(opts.unblock) == 0 && opts.importFrom == "" && !opts.list {
		return console.NewSession(manager, log).Run(ctx, stdin, stdout)
	}

	if len(opts.block) > 0 {
		added, err := manager.Block(opts.block...)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %d rule(s).\n", added)
	}
	if len(opts.unblock) > 0 {
		removed, err := manager.Unblock(opts.unblock...)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Removed %d rule(s).\n", removed)
	}
	if opts.importFrom != "" {
		list, err := blocklist.Load(ctx, opts.importFrom, blocklist.Options{Logger: log, ErrorLimit: importErrorLimit})
		if err != nil {
			return err
		}
		added, err := manager.Block(list.Domains...)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %d rule(s) from %d listed domain(s).\n", added, len(list.Domains))
	}
	if !opts.list {
		return nil
	}

	if err := printBlocked(stdout, manager); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return hostsfile.Watch(ctx, cfg.Hosts.Path, cfg.Watch.Debounce, log, func() {
		fmt.Fprintln(stdout, "--")
		if err := printBlocked(stdout, manager); err != nil {
			log.Error("failed to list blocked domains", "error", err)
		}
	})
}

func printBlocked(w io.Writer, manager *blocker.Manager) error {
	domains, err := manager.List()
	if err != nil {
		return err
	}
	for _, d := range domains {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return err
		}
	}
	return nil
}
