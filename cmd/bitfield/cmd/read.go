package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldbits/bitbuf"
)

func newReadCmd() *cobra.Command {
	readCmd := &cobra.Command{
		Use:   "read [file]",
		Short: "Read bit fields from a file or stdin",
		Long: `Read applies the field layout to the input and prints every field with
its bit offset, width and value. With --repeat the layout is applied
record after record until the input is exhausted. With --rest the whole
bytes following the last record are printed as hex, even if they do not
start on a byte boundary.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRead,
	}

	flags := readCmd.Flags()
	flags.Int("skip", 0, "number of bits to skip before the first record")
	flags.Bool("align", false, "align each record to a byte boundary")
	flags.Bool("repeat", false, "apply the layout repeatedly until the input is exhausted")
	flags.Bool("rest", false, "print the whole bytes left after the last record as hex")
	return readCmd
}

func runRead(cmd *cobra.Command, args []string) error {
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

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	logger.Debug("input loaded",
		zap.String("size", bytefmt.ByteSize(uint64(len(data)))),
		zap.Int("fields", len(layout)),
		zap.Int("bits", layout.Bits()),
	)

	r := bitbuf.NewReader(data)
	skip := vip.GetInt("skip")
	if skip < 0 {
		return fmt.Errorf("invalid skip %d: must not be negative", skip)
	}
	if skip > 0 {
		if err := r.SkipBits(skip); err != nil {
			return fmt.Errorf("skip %d bits: %w", skip, err)
		}
	}

	rows, err := readRecords(r, layout, vip.GetBool("align"), vip.GetBool("repeat"))
	if err != nil {
		return err
	}
	logger.Debug("records read", zap.Int("fields", len(rows)), zap.Int("bitsLeft", r.BitsLeft()))

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"field", "bit", "width", "hex", "value"})
	table.SetBorder(true)
	table.AppendBulk(rows)
	table.Render()

	if !vip.GetBool("rest") {
		return nil
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read rest: %w", err)
	}
	logger.Debug("rest read", zap.Int("bytes", len(rest)), zap.Int("bitsLeft", r.BitsLeft()))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(rest))
	return err
}

// readRecords reads the layout once, or until the input is exhausted if
// repeat is set. A record cut short by the end of the input is an error.
func readRecords(r *bitbuf.Reader, layout Layout, align, repeat bool) ([][]string, error) {
	var rows [][]string
	for {
		if align {
			r.Align()
		}
		if repeat && r.BitsLeft() == 0 {
			return rows, nil
		}

		for _, f := range layout {
			pos := r.BitPosition()
			u, err := r.ReadBits(f.Width)
			if err != nil {
				return nil, fmt.Errorf("field %s at bit %d: %w", f.Name, pos, err)
			}
			rows = append(rows, []string{
				f.Name,
				strconv.Itoa(pos),
				strconv.Itoa(f.Width),
				fmt.Sprintf("%#x", u),
				strconv.FormatUint(uint64(u), 10),
			})
		}

		if !repeat {
			return rows, nil
		}
	}
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("input file %s does not exist", args[0])
	}
	return data, err
}
