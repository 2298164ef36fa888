package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

func fillCmd(flags *globalFlags) *cobra.Command {
	var (
		confirm     bool
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "fill <form-key>",
		Short: "Fill a form interactively and submit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen, err := newOrchestrator(ctx, flags)
			if err != nil {
				return err
			}

			ctrl, err := gen.Mount(args[0], flags.locale)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			filler := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
				tui.WithCatalog(gen.Store().Messages().Catalog(flags.locale)),
				tui.WithConfirm(confirm),
				tui.WithMaxAttempts(maxAttempts),
			)
			out, err := filler.Fill(ctx, ctrl)
			switch {
			case errors.Is(err, tui.ErrAborted), errors.Is(err, tui.ErrDeclined):
				fmt.Fprintln(cmd.ErrOrStderr(), "Nothing submitted.")
				return nil
			case err != nil:
				return err
			}

			summary, err := gen.Output(ctx, ctrl.Tree(), "text", render.RenderOptions{})
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(summary); err != nil {
				return err
			}
			if out.Phase == controller.Error {
				return fmt.Errorf("submission failed: %s", out.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", true, "ask before submitting")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "prompts per field before giving up")

	return cmd
}
