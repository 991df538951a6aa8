package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rekindle/internal/kernel"
	"rekindle/internal/preflight"
)

func newRunCommand(ctx *appContext) *cobra.Command {
	var outputPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run <settings-file>",
		Short: "Run the solver kernel on a settings store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			checks := preflight.Run(cfg)
			if !preflight.AllPassed(checks) {
				rows := make([][]string, 0, len(checks))
				for _, r := range checks {
					status := "ok"
					if !r.Passed {
						status = "FAIL"
					}
					rows = append(rows, []string{r.Name, status, r.Detail})
				}
				writeTable(out, []string{"Check", "Status", "Detail"}, rows, nil)
				return fmt.Errorf("preflight checks failed; fix the configuration and retry")
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runner := kernel.New(cfg, kernel.WithLogger(logger))
			opts := kernel.RunOptions{OutputPath: outputPath}
			if !quiet {
				opts.Progress = func(p kernel.Progress) {
					line := fmt.Sprintf("step %s  t=%s", formatCount(p.Step), formatFloat(p.Time))
					if p.Tmax > 0 {
						line += fmt.Sprintf(" / %s (%.0f%%)", formatFloat(p.Tmax), 100*p.Time/p.Tmax)
					}
					if p.Message != "" {
						line += "  " + p.Message
					}
					fmt.Fprintln(out, line)
				}
			}

			res, err := runner.Run(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Run %s finished in %s\n", res.RunID[:8], res.Elapsed.Round(time.Millisecond))
			fmt.Fprintf(out, "Output store: %s\n", res.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output store path (defaults into the work directory)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress progress lines")
	return cmd
}
