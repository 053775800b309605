package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eastwood-fallfest/festmap/internal/config"
	"github.com/eastwood-fallfest/festmap/internal/dataset"
	"github.com/eastwood-fallfest/festmap/internal/geo"
)

var offsetCmd = &cobra.Command{
	Use:   "offset <lat,lng>",
	Short: "Print the dataset offset of a point from the base",
	Long: `Prints the offset of a point from the configured base point, in the
form dataset entries are written, plus the approximate distance in metres.`,
	Args: cobra.ExactArgs(1),
	RunE: runOffset,
}

func runOffset(cmd *cobra.Command, args []string) error {
	p, err := geo.ParseLatLng(strings.Join(strings.Fields(args[0]), ""))
	if err != nil {
		return fmt.Errorf("%q: %w", args[0], err)
	}
	base, err := resolveBase(config.GetMapConfig(), dataset.Builtin())
	if err != nil {
		return err
	}

	o := geo.OffsetFrom(base, p)
	fmt.Fprintln(cmd.OutOrStdout(), geo.FormatOffset(o))
	fmt.Fprintf(cmd.OutOrStdout(), "base %s, %.1fm east, %.1fm north\n", base, o.EastM, o.NorthM)
	return nil
}
