package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "inspect encoding...",
		Short: "Decode packed encodings into fields, class, and value",
		Long: `Decode packed encodings into their fields, classification, and value.
Encodings are integers in Go literal syntax: 0x7e, 0b01111110, or 126.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(formatName)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 2, 2, ' ', 0)
			fmt.Fprintln(w, "bits\thex\tclass\tfields\tdouble\tdecimal\tcanonical")
			for _, arg := range args {
				v, err := f.Populator().OfString(arg, 0)
				if err != nil {
					return fmt.Errorf("encoding %q: %w", arg, err)
				}
				d, err := v.ToDouble()
				if err != nil {
					return err
				}
				dec, err := v.DecimalString()
				if err != nil {
					return err
				}
				canonical := "-"
				if !v.IsCanonical() {
					canonical = v.Canonicalize().String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					v, hexBits(v), classOf(v), v.TupleString(),
					strconv.FormatFloat(d, 'g', -1, 64), dec, canonical)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "fp16", "format to decode under")
	return cmd
}
