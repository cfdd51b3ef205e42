package main

import (
	"fmt"
	"math"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fpval/float"
	"fpval/logic"
)

// vectorEntry pairs a packed encoding with the double it converts to.
type vectorEntry struct {
	Bits   uint64  `cbor:"bits"`
	Double float64 `cbor:"double"`
}

type vectorSet struct {
	Format  string        `cbor:"format"`
	Width   int           `cbor:"width"`
	Entries []vectorEntry `cbor:"entries"`
}

// maxVectorWidth bounds exhaustive generation to formats whose whole
// encoding space fits in memory comfortably.
const maxVectorWidth = 16

func newVectorsCmd() *cobra.Command {
	var formatName, outPath, verifyPath string
	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Generate or verify exhaustive conversion vectors",
		Long: `Generate a CBOR file pairing every packed encoding of a format with its
double conversion, or replay such a file against the library.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verifyPath != "" {
				return verifyVectors(verifyPath)
			}
			if outPath == "" {
				return fmt.Errorf("need --out to generate or --verify to replay")
			}
			f, err := resolveFormat(formatName)
			if err != nil {
				return err
			}
			return writeVectors(f, outPath)
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "fp16", "format to enumerate")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "CBOR file to write")
	cmd.Flags().StringVar(&verifyPath, "verify", "", "CBOR file to replay instead of generating")
	return cmd
}

func writeVectors(f float.Format, path string) error {
	w := f.TotalWidth()
	if w > maxVectorWidth {
		return fmt.Errorf("%s packs into %d bits, exhaustive vectors stop at %d", f, w, maxVectorWidth)
	}
	entries := make([]vectorEntry, 1<<uint(w))
	for code := range entries {
		v, err := f.Populator().OfPacked(logic.FromUint(uint64(code), w))
		if err != nil {
			return err
		}
		d, err := v.ToDouble()
		if err != nil {
			return err
		}
		entries[code] = vectorEntry{Bits: uint64(code), Double: d}
	}
	data, err := cbor.Marshal(vectorSet{Format: f.String(), Width: w, Entries: entries})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Info().Stringer("format", f).Int("entries", len(entries)).Str("path", path).Msg("wrote vectors")
	return nil
}

func verifyVectors(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var set vectorSet
	if err := cbor.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	f, err := resolveFormat(set.Format)
	if err != nil {
		return err
	}
	if w := f.TotalWidth(); w != set.Width {
		return fmt.Errorf("%s: %s packs into %d bits, file says %d", path, f, w, set.Width)
	}

	var g errgroup.Group
	const stride = 1 << 12
	for lo := 0; lo < len(set.Entries); lo += stride {
		lo := lo
		hi := lo + stride
		if hi > len(set.Entries) {
			hi = len(set.Entries)
		}
		g.Go(func() error {
			for _, e := range set.Entries[lo:hi] {
				v, err := f.Populator().OfPacked(logic.FromUint(e.Bits, set.Width))
				if err != nil {
					return err
				}
				got, err := v.ToDouble()
				if err != nil {
					return err
				}
				// NaN payloads do not survive CBOR, so NaN matches by class.
				if math.IsNaN(e.Double) && math.IsNaN(got) {
					continue
				}
				if math.Float64bits(got) != math.Float64bits(e.Double) {
					return fmt.Errorf("code %#x: stored %v, replayed %v", e.Bits, e.Double, got)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Stringer("format", f).Int("entries", len(set.Entries)).Str("path", path).Msg("vectors verified")
	return nil
}
