// fpconv converts doubles into parameterized floating point formats and
// back, prints a format's constant catalog, and generates exhaustive
// conversion vectors for cross-checking other implementations.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fpval/float"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("fpconv failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var formatsFile string
	root := &cobra.Command{
		Use:           "fpconv",
		Short:         "Inspect and convert parameterized floating point encodings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return loadCustomFormats(formatsFile)
		},
	}
	root.SetGlobalNormalizationFunc(wordSepNormalizeFunc)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&formatsFile, "formats", "", "YAML file with named custom formats")
	root.AddCommand(newConvertCmd(), newInspectCmd(), newTableCmd(), newVectorsCmd())
	return root
}

// wordSepNormalizeFunc accepts underscores in flag names as dashes.
func wordSepNormalizeFunc(fs *pflag.FlagSet, name string) pflag.NormalizedName {
	if strings.Contains(name, "_") {
		name = strings.ReplaceAll(name, "_", "-")
	}
	return pflag.NormalizedName(name)
}

// classOf names the class a valid encoding falls into, with the infinity
// sign spelled out.
func classOf(v float.Value) string {
	switch {
	case !v.IsValid():
		return "unknown"
	case v.IsNaN():
		return "nan"
	case v.IsInf():
		if v.Signbit() {
			return "-inf"
		}
		return "+inf"
	case v.IsZero():
		return "zero"
	case v.IsSubnormal():
		return "subnormal"
	default:
		return "normal"
	}
}

// hexBits renders the packed encoding as zero-padded hex.
func hexBits(v float.Value) string {
	bits, err := v.Packed().BigInt()
	if err != nil {
		return v.BitString()
	}
	return fmt.Sprintf("%#0*x", (v.Format().TotalWidth()+3)/4+2, bits)
}
