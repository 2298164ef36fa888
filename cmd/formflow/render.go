package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		output      string
		page        bool
		title       string
		stylesheets []string
		outFile     string
	)

	cmd := &cobra.Command{
		Use:   "render <form-key>",
		Short: "Render a form as HTML or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen, err := newOrchestrator(ctx, flags)
			if err != nil {
				return err
			}

			out, err := gen.Generate(ctx, orchestrator.Request{
				Key:    args[0],
				Locale: flags.locale,
				Output: output,
				RenderOptions: render.RenderOptions{
					Page:        page,
					Title:       title,
					Stylesheets: stylesheets,
				},
			})
			if err != nil {
				return err
			}

			if outFile == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outFile, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "html", "output format (html, text)")
	cmd.Flags().BoolVar(&page, "page", false, "wrap the form in a full HTML document")
	cmd.Flags().StringVar(&title, "title", "", "document title when --page is set")
	cmd.Flags().StringSliceVar(&stylesheets, "stylesheet", nil, "stylesheet URLs linked when --page is set")
	cmd.Flags().StringVar(&outFile, "out", "", "output file (stdout if empty)")

	return cmd
}
