package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fpval/float"
)

func newTableCmd() *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print a format's constant catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(formatName)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 2, 2, ' ', 0)
			fmt.Fprintln(w, "constant\tbits\thex\tdecimal")
			for _, c := range float.Constants() {
				v, err := f.Constant(c)
				if errors.Is(err, float.ErrInfinityUnsupported) {
					log.Debug().Stringer("constant", c).Stringer("format", f).Msg("not representable")
					continue
				}
				if err != nil {
					return err
				}
				dec, err := v.DecimalString()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c, v, hexBits(v), dec)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "fp16", "format to tabulate")
	return cmd
}
