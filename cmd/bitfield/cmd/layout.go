package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Field is a named fixed-width field of a layout.
type Field struct {
	Name  string `mapstructure:"name"`
	Width int    `mapstructure:"width"`
}

// Layout is the sequence of fields a record is made of.
type Layout []Field

func (l Layout) validate() error {
	if len(l) == 0 {
		return errors.New("layout has no fields")
	}
	for i, f := range l {
		if f.Width < 1 || f.Width > 32 {
			return fmt.Errorf("field %d (%s): width %d is out of range (0<n<=32)", i, f.Name, f.Width)
		}
	}
	return nil
}

// Bits returns the total width of the layout.
func (l Layout) Bits() int {
	n := 0
	for _, f := range l {
		n += f.Width
	}
	return n
}

// parseWidths parses a comma separated list of widths such as "4,4,8".
// Fields are named f0, f1, ...
func parseWidths(s string) (Layout, error) {
	var l Layout
	for i, w := range strings.Split(s, ",") {
		w = strings.TrimSpace(w)
		n, err := strconv.Atoi(w)
		if err != nil {
			return nil, fmt.Errorf("invalid width %q: %w", w, err)
		}
		l = append(l, Field{Name: "f" + strconv.Itoa(i), Width: n})
	}
	return l, l.validate()
}

// loadLayout reads the fields of a layout file. The format is taken from the
// file extension (yaml, json, toml, ...).
func loadLayout(path string) (Layout, error) {
	vip := viper.New()
	vip.SetConfigFile(path)
	if err := vip.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	var l Layout
	if err := vip.UnmarshalKey("fields", &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout file: %w", err)
	}
	for i := range l {
		if l[i].Name == "" {
			l[i].Name = "f" + strconv.Itoa(i)
		}
	}
	return l, l.validate()
}

// resolveLayout picks the layout from --layout if set, else from --widths.
func resolveLayout(vip *viper.Viper) (Layout, error) {
	if path := vip.GetString("layout"); path != "" {
		return loadLayout(path)
	}
	if widths := vip.GetString("widths"); widths != "" {
		return parseWidths(widths)
	}
	return nil, errors.New("one of --layout or --widths is required")
}
