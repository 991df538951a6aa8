package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rekindle/pkg/output"
)

func newOutputCommand(ctx *appContext) *cobra.Command {
	outputCmd := &cobra.Command{
		Use:   "output",
		Short: "Inspect solver output stores",
	}

	outputCmd.AddCommand(newOutputSummaryCommand())
	outputCmd.AddCommand(newOutputIntegrateCommand())

	return outputCmd
}

func newOutputSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "summary <file>",
		Short:       "Summarize the grid and quantities of an output store",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := output.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load output store: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Time steps:   %s\n", formatCount(len(o.Grid.Time)))
			fmt.Fprintf(out, "Radial cells: %s\n", formatCount(len(o.Grid.Radius)))
			for _, mg := range []*output.MomentumGrid{o.Grid.Hottail, o.Grid.Runaway} {
				if mg == nil {
					continue
				}
				fmt.Fprintf(out, "%s grid: %s x %s (%s, %s)\n",
					mg.Name, formatCount(len(mg.P1)), formatCount(len(mg.P2)),
					mg.P1Name(), mg.P2Name())
			}

			var rows [][]string
			for _, name := range o.Names() {
				kind, _ := o.Kind(name)
				shape, grid := quantityShape(o, name, kind)
				rows = append(rows, []string{name, kind.String(), shape, grid})
			}
			writeTable(out, []string{"Quantity", "Kind", "Shape", "Momentum grid"}, rows, nil)

			for _, category := range o.OtherCategories() {
				oq, err := o.Other(category)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "other/%s: %s quantities\n", category, formatCount(len(oq.Names())))
			}
			return nil
		},
	}
}

func quantityShape(o *output.Output, name string, kind output.Kind) (shape, grid string) {
	switch kind {
	case output.KindScalar:
		q, err := o.Scalar(name)
		if err != nil {
			return "?", ""
		}
		return formatShape([]int{len(q.Data)}), ""
	case output.KindFluid:
		q, err := o.Fluid(name)
		if err != nil {
			return "?", ""
		}
		return formatShape(q.Data.Shape()), ""
	case output.KindKinetic:
		q, err := o.Kinetic(name)
		if err != nil {
			return "?", ""
		}
		return formatShape(q.Data.Shape()), q.Momentum.Name
	default:
		q, err := o.Raw(name)
		if err != nil {
			return "?", ""
		}
		return formatShape(q.Data.Shape()), ""
	}
}

func newOutputIntegrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "integrate <file> <quantity>",
		Short:       "Volume-integrate a fluid quantity over the plasma",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := output.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load output store: %w", err)
			}

			name := args[1]
			if kind, ok := o.Kind(name); ok && kind != output.KindFluid {
				return fmt.Errorf("quantity %s is %s; only fluid quantities have a volume integral", name, kind)
			}
			q, err := o.Fluid(name)
			if err != nil {
				return err
			}
			integrals, err := q.Integrals()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(integrals))
			for ti, v := range integrals {
				rows = append(rows, []string{formatFloat(o.Grid.Time[ti]), formatFloat(v)})
			}
			writeTable(cmd.OutOrStdout(), []string{"Time", "Integral"}, rows,
				[]columnAlignment{alignRight, alignRight})
			return nil
		},
	}
}
