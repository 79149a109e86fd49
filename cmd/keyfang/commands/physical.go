package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
	"github.com/Sumatoshi-tech/keyfang/internal/config"
	"github.com/Sumatoshi-tech/keyfang/internal/transfer"
)

// PhysicalCommand holds configuration for the physical command.
type PhysicalCommand struct {
	positions int
	depths    int
	macs      int
	noColor   bool
}

// NewPhysicalCommand creates the physical command: an exact count of the
// keys constrained only by the MACS tolerance, computed by transfer-matrix
// power instead of enumeration.
func NewPhysicalCommand() *cobra.Command {
	pc := &PhysicalCommand{}

	cmd := &cobra.Command{
		Use:   "physical",
		Short: "Count physically cuttable (MACS-only) key bittings",
		Long: `Physical counts the keys that respect only the MACS adjacent-cut
tolerance, ignoring the EN 1303 frequency and repetition rules. The count
is computed exactly from powers of the depth adjacency matrix, so it stays
fast for parameters far beyond what enumeration can reach.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return pc.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&pc.positions, "positions", "n", config.DefaultPositions, "number of cut positions per key")
	cmd.Flags().IntVarP(&pc.depths, "depths", "k", config.DefaultDepths, "number of cut depths")
	cmd.Flags().IntVarP(&pc.macs, "macs", "m", config.DefaultMACS, "maximum adjacent cut difference")
	cmd.Flags().BoolVar(&pc.noColor, "no-color", false, "disable colored output")

	return cmd
}

func (pc *PhysicalCommand) run(w io.Writer) error {
	if pc.noColor {
		color.NoColor = true
	}

	spec := bitting.Spec{
		Positions: pc.positions,
		Depths:    pc.depths,
		MACS:      pc.macs,
	}

	total, err := transfer.CountPhysical(spec)
	if err != nil {
		return err
	}

	header := color.New(color.Bold)

	_, err = header.Fprintf(w, "n = %d, k = %d, macs = %d\n", spec.Positions, spec.Depths, spec.MACS)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	_, err = fmt.Fprintf(w, "Physical keys: %s\n", humanize.BigComma(total))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	return nil
}
