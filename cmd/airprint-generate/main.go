package main

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"airprintgolang/internal/airprint"
	"airprintgolang/internal/config"
	"airprintgolang/internal/cupsclient"
	"airprintgolang/internal/generate"
	"airprintgolang/internal/logging"
	"airprintgolang/internal/servicedir"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "airprint-generate:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	cfg        config.Config
	configFile string
}

func (r *rootFlags) register(f *pflag.FlagSet) {
	f.StringVarP(&r.cfg.Host, "host", "H", "", "hostname of CUPS server (optional)")
	f.IntVarP(&r.cfg.Port, "port", "P", r.cfg.Port, "port number of CUPS server")
	f.StringVarP(&r.cfg.User, "user", "u", "", "username to authenticate with against CUPS")
	f.BoolVarP(&r.cfg.Encrypt, "encrypt", "e", false, "require TLS for the connection to CUPS")
	f.StringVarP(&r.cfg.Directory, "directory", "d", "", "directory to create service files")
	f.BoolVarP(&r.cfg.Verbose, "verbose", "v", false, "print debugging information to STDERR")
	f.StringVarP(&r.cfg.Prefix, "prefix", "p", r.cfg.Prefix, "prefix all files with this string")
	f.BoolVarP(&r.cfg.AdminURL, "admin", "a", false, "include the printer specified uri as the adminurl")
	f.StringVarP(&r.configFile, "config", "c", "", "YAML file with default settings")
	f.StringVar(&r.cfg.Log, "log", r.cfg.Log, "diagnostics destination: stderr, stdout, none or a file")
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{cfg: config.Default()}
	cmd := &cobra.Command{
		Use:           "airprint-generate",
		Short:         "Generate AirPrint service files for CUPS printers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), flags.configFile, flags.cfg)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

// resolveConfig layers explicitly set flags over the config file, if any.
func resolveConfig(flags *pflag.FlagSet, path string, flagged config.Config) (config.Config, error) {
	if path == "" {
		return flagged, flagged.Validate()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return cfg, err
	}
	flags.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "host":
			cfg.Host = flagged.Host
		case "port":
			cfg.Port = flagged.Port
		case "user":
			cfg.User = flagged.User
		case "encrypt":
			cfg.Encrypt = flagged.Encrypt
		case "directory":
			cfg.Directory = flagged.Directory
		case "verbose":
			cfg.Verbose = flagged.Verbose
		case "prefix":
			cfg.Prefix = flagged.Prefix
		case "admin":
			cfg.AdminURL = flagged.AdminURL
		case "log":
			cfg.Log = flagged.Log
		}
	})
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logging.Configure(cfg.Log, cfg.MaxLogSize)
	defer logging.Close()
	logger := logging.NewLogger(logging.ErrorWriter(), cfg.Verbose)

	client := cupsclient.NewFromConfig(clientOptions(cfg)...)
	logger.Debug("querying CUPS", "host", client.Host, "port", client.Port, "user", client.User)

	g := &generate.Generator{
		Source: client,
		Builder: airprint.Builder{
			DefaultPort: cfg.Port,
			AdminURL:    cfg.AdminURL,
			Logger:      logger,
		},
		Dir:     servicedir.Dir{Path: cfg.Directory, Prefix: cfg.Prefix},
		Verbose: cfg.Verbose,
		Logger:  logger,
	}
	_, err := g.Run(ctx)
	return err
}

// clientOptions maps the connection flags onto the CUPS client. -P only
// applies when --host names no port of its own.
func clientOptions(cfg config.Config) []cupsclient.ClientOption {
	opts := []cupsclient.ClientOption{
		cupsclient.WithUser(cfg.User),
		cupsclient.WithTLS(cfg.Encrypt),
		cupsclient.WithPasswordPrompt(promptPassword),
	}
	// Without --host the client.conf / CUPS_SERVER defaults apply untouched.
	if cfg.Host != "" {
		opts = append(opts, cupsclient.WithServer(cfg.Host))
		if !hasPort(cfg.Host) {
			opts = append(opts, cupsclient.WithPort(cfg.Port))
		}
	}
	return opts
}

// hasPort reports whether host, a name or a server URL, names a port.
func hasPort(host string) bool {
	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		return err == nil && u.Port() != ""
	}
	_, _, err := net.SplitHostPort(host)
	return err == nil
}
