package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fpval/float"
)

func newConvertCmd() *cobra.Command {
	var formatName, roundName string
	var clamp, exact bool
	cmd := &cobra.Command{
		Use:   "convert value...",
		Short: "Convert decimal values into a format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(formatName)
			if err != nil {
				return err
			}
			mode, err := float.ParseRoundingMode(roundName)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 2, 2, ' ', 0)
			fmt.Fprintln(w, "input\tbits\thex\tclass\tdecimal")
			for _, arg := range args {
				d, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("value %q: %w", arg, err)
				}
				p := f.Populator()
				var v float.Value
				if exact {
					v, err = p.OfDoubleUnrounded(d)
				} else {
					opts := []float.RoundOption{float.WithRounding(mode)}
					if clamp {
						opts = append(opts, float.WithFiniteClamp())
					}
					v, err = p.OfDouble(d, opts...)
				}
				if err != nil {
					return fmt.Errorf("value %q: %w", arg, err)
				}
				dec, err := v.DecimalString()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", arg, v, hexBits(v), classOf(v), dec)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "fp16", "target format name")
	cmd.Flags().StringVarP(&roundName, "round", "r", float.RoundNearestEven.String(), "rounding mode")
	cmd.Flags().BoolVar(&clamp, "clamp", false, "saturate out-of-range magnitudes to the largest finite value")
	cmd.Flags().BoolVar(&exact, "exact", false, "convert through the exact integer path, truncating")
	return cmd
}
