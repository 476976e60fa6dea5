package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/justnchxn/musictoart/pkg/rng"
)

// seedCommand creates the seed command, a debugging aid that shows how a
// seed string drives the renderer's generator.
func (c *CLI) seedCommand() *cobra.Command {
	var draws int

	cmd := &cobra.Command{
		Use:   "seed <string>",
		Short: "Print the hash and first draws of a seed",
		Long: `Seed hashes a seed string the way the renderer does and prints the first
draws of the generator: the raw 32-bit state and the float in [0, 1) derived
from it. Two renders with the same seed consume exactly these values.`,
		Example: `  musictoart seed x
  musictoart seed "indie-2010s-night" -n 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if draws < 0 {
				return fmt.Errorf("draw count must not be negative, got %d", draws)
			}
			fmt.Fprintln(cmd.OutOrStdout(), seedTable(args[0], draws))
			return nil
		},
	}

	cmd.Flags().IntVarP(&draws, "draws", "n", 5, "number of draws to show")
	return cmd
}

// seedTable renders Hash(seed) followed by the first n draws.
func seedTable(seed string, n int) string {
	h := rng.Hash(seed)
	states := rng.New(h)
	floats := rng.Make(h)

	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.FormatUint(uint64(states.Uint32()), 10),
			strconv.FormatFloat(floats(), 'f', 6, 64),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "state", "float").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 { // header
				return s.Bold(true).Foreground(colorCyan)
			}
			if col == 0 {
				return s.Foreground(colorGray)
			}
			return s.Foreground(colorWhite)
		})

	header := styleKey.Render("hash") + " " + StyleNumber.Render(strconv.FormatUint(uint64(h), 10))
	return header + "\n" + t.String()
}
