package cli

import (
	"fmt"
	"io"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

// printSummary writes the human-readable result: totals and the largest
// offcut, then one line per placed block, then the blocks that did not fit.
func printSummary(w io.Writer, name string, result model.PackResult, settings model.PackSettings, offcuts []model.Offcut) {
	fmt.Fprintf(w, "Job:       %s\n", name)
	fmt.Fprintf(w, "Container: %g x %g\n", result.Container.Width, result.Container.Height)
	fmt.Fprintf(w, "Placed:    %d of %d blocks (%d groups)\n",
		len(result.Placed), len(result.Placed)+result.UnplacedCount(), result.GroupCount())
	fmt.Fprintf(w, "Fullness:  %.2f%%\n", result.Fullness*100)
	fmt.Fprintf(w, "Coverage:  %.2f%% (%g of %g)\n", result.Coverage*100, result.PlacedArea(), result.Container.Area())
	fmt.Fprintf(w, "Tags:      %s (seed %d)\n", settings.TagStyle, settings.Seed)
	if len(offcuts) > 0 {
		fmt.Fprintf(w, "Offcuts:   %d reusable, largest %g x %g at (%g, %g)\n",
			len(offcuts), offcuts[0].Width(), offcuts[0].Height(), offcuts[0].Left, offcuts[0].Top)
	} else {
		fmt.Fprintf(w, "Offcuts:   none\n")
	}

	if len(result.Placed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-5s %-5s %-16s %-10s %-10s %-10s %-10s %s\n",
			"#", "SEQ", "LABEL", "TOP", "LEFT", "WIDTH", "HEIGHT", "GROUP")
		for _, pb := range result.Placed {
			fmt.Fprintf(w, "%-5d %-5d %-16s %-10g %-10g %-10g %-10g %s\n",
				pb.OutputIndex, pb.Sequence, orDash(pb.Label),
				pb.Top, pb.Left, pb.Right-pb.Left, pb.Bottom-pb.Top, pb.GroupTag)
		}
	}

	if result.UnplacedCount() > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Did not fit (%d):\n", result.UnplacedCount())
		for _, b := range result.Unplaced {
			fmt.Fprintf(w, "  seq %-4d %-16s %g x %g  %s\n", b.Sequence, orDash(b.Label), b.Width, b.Height, b.GroupTag)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
