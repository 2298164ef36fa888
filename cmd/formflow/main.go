package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/transport"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	forms    []string
	locale   string
	logLevel string
	baseURL  string

	themeFiles   []string
	theme        string
	themeVariant string
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "formflow",
		Short: "Render, fill and serve declarative forms",
		Long: `formflow loads form definitions from JSON or YAML documents and
renders them as HTML or text, fills them from the terminal, or serves them
over HTTP with server-side validation and submission.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags.logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringSliceVarP(&flags.forms, "forms", "f", []string{"forms.yaml"}, "form document paths or URLs (repeatable)")
	rootCmd.PersistentFlags().StringVarP(&flags.locale, "locale", "l", "es", "message locale")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "base URL that relative form actions resolve against")
	rootCmd.PersistentFlags().StringSliceVar(&flags.themeFiles, "theme-file", nil, "theme manifest YAML files applied to HTML pages (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "theme name (defaults to the first --theme-file)")
	rootCmd.PersistentFlags().StringVar(&flags.themeVariant, "theme-variant", "", "theme variant")

	rootCmd.AddCommand(
		renderCmd(flags),
		fillCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "formflow %s (%s)\n", version, commit)
		},
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// newOrchestrator builds an orchestrator with every document in flags.forms
// loaded into its store.
func newOrchestrator(ctx context.Context, flags *globalFlags, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	tr, err := resolvingTransport(flags.baseURL, transport.NewHTTP())
	if err != nil {
		return nil, err
	}
	themes, err := themeOptions(flags)
	if err != nil {
		return nil, err
	}
	options = append(append([]orchestrator.Option{
		orchestrator.WithTransport(tr),
		orchestrator.WithLoader(newLoader()),
	}, themes...), options...)

	gen := orchestrator.New(options...)
	for _, raw := range flags.forms {
		src, err := parseSource(raw)
		if err != nil {
			return nil, err
		}
		if err := gen.Load(ctx, src); err != nil {
			return nil, err
		}
	}
	return gen, nil
}

func parseSource(raw string) (schema.Source, error) {
	src, err := schema.ParseSource(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid form source %q: %w", raw, err)
	}
	return src, nil
}

// resolvingTransport rewrites relative form actions against base before
// handing the request to next. An empty base leaves URLs untouched.
func resolvingTransport(base string, next transport.Transport) (transport.Transport, error) {
	if base == "" {
		return next, nil
	}
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return nil, fmt.Errorf("invalid base URL %q", base)
	}
	return transport.Func(func(ctx context.Context, req transport.Request) (transport.Response, error) {
		if target, err := url.Parse(req.URL); err == nil && !target.IsAbs() {
			req.URL = baseURL.ResolveReference(target).String()
		}
		return next.Submit(ctx, req)
	}), nil
}
