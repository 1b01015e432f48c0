package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/fieldbits/bitbuf"
)

// rawPrefix marks a pack argument holding raw bytes in hex.
const rawPrefix = "hex:"

const (
	growthDoubling = "doubling"
	growthChunked  = "chunked"
	growthFixed    = "fixed"
)

// growthValue is a pflag.Value restricted to the known growth strategies.
type growthValue string

var _ pflag.Value = (*growthValue)(nil)

func (g *growthValue) String() string { return string(*g) }

func (g *growthValue) Set(s string) error {
	switch s {
	case growthDoubling, growthChunked, growthFixed:
		*g = growthValue(s)
		return nil
	}
	return fmt.Errorf("unknown growth strategy %q (want %s, %s or %s)", s, growthDoubling, growthChunked, growthFixed)
}

func (g *growthValue) Type() string { return "growth" }

func newPackCmd() *cobra.Command {
	packCmd := &cobra.Command{
		Use:   "pack value...",
		Short: "Pack values into bit fields",
		Long: `Pack writes every value into the next field of the layout, starting over
with the first field when the layout is exhausted. Values are decimal, or
hexadecimal/octal/binary with a 0x/0o/0b prefix.

An argument of the form hex:<bytes>, e.g. hex:cafe, writes the bytes as is
at the current bit position and does not use up a field.

The packed bytes are printed as hex, or written raw to --out.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runPack,
	}

	growth := growthValue(growthDoubling)
	flags := packCmd.Flags()
	flags.Var(&growth, "growth", "buffer growth strategy: doubling, chunked or fixed")
	flags.String("size", strconv.Itoa(bitbuf.DefaultInitialSize), "initial, chunk or fixed buffer size, e.g. 512 or 64K")
	flags.StringP("out", "o", "", "write the packed bytes to this file instead of printing hex")
	return packCmd
}

func runPack(cmd *cobra.Command, args []string) error {
	vip, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(cmd, vip)
	defer logger.Sync()

	layout, err := resolveLayout(vip)
	if err != nil {
		return err
	}

	size, err := parseSize(vip.GetString("size"))
	if err != nil {
		return err
	}
	w, err := newWriter(vip.GetString("growth"), size)
	if err != nil {
		return err
	}

	if err := packValues(w, layout, args); err != nil {
		return err
	}
	logger.Debug("values packed",
		zap.Int("values", len(args)),
		zap.String("size", bytefmt.ByteSize(uint64(w.ByteLen()))),
		zap.String("buffer", bytefmt.ByteSize(uint64(w.Cap()))),
	)

	if out := vip.GetString("out"); out != "" {
		if err := os.WriteFile(out, w.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(w.Bytes()))
	return err
}

func packValues(w *bitbuf.Writer, layout Layout, args []string) error {
	field := 0
	for i, arg := range args {
		if raw, ok := strings.CutPrefix(arg, rawPrefix); ok {
			b, err := hex.DecodeString(raw)
			if err != nil {
				return fmt.Errorf("value %d: invalid raw bytes: %w", i, err)
			}
			if _, err := w.Write(b); err != nil {
				return fmt.Errorf("value %d: %w", i, err)
			}
			continue
		}

		f := layout[field%len(layout)]
		field++
		v, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return fmt.Errorf("value %d (%s): %w", i, f.Name, err)
		}
		if v>>f.Width != 0 {
			return fmt.Errorf("value %d (%s): %s does not fit in %d bits", i, f.Name, arg, f.Width)
		}
		if err := w.WriteBits(uint32(v), f.Width).Err(); err != nil {
			return fmt.Errorf("value %d (%s): %w", i, f.Name, err)
		}
	}
	return nil
}

func newWriter(growth string, size int) (*bitbuf.Writer, error) {
	switch growth {
	case growthDoubling:
		return bitbuf.NewWriter(bitbuf.WithGrowth(bitbuf.Doubling(size))), nil
	case growthChunked:
		return bitbuf.NewWriter(bitbuf.WithGrowth(bitbuf.Chunked(size))), nil
	case growthFixed:
		return bitbuf.NewWriter(bitbuf.WithBuffer(make([]byte, size))), nil
	}
	var g growthValue
	return nil, g.Set(growth)
}

// parseSize accepts plain byte counts and bytefmt sizes such as 64K.
func parseSize(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("invalid size %q", s)
		}
		return n, nil
	}
	n, err := bytefmt.ToBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int(n), nil
}
