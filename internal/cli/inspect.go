package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/deckmerge/internal/engine"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pptx>",
	Short: "List the slides of a presentation",
	Long: `List the slides of a presentation in order with their slide IDs, parts,
layouts and titles. Use the positions shown here in --slides expressions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		eng := newEngine(cfg)

		result, err := eng.Inspect(cmd.Context(), &engine.InspectRequest{Path: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection(result.Path)
		PrintLabelValue("Slides", strconv.Itoa(len(result.Slides)))
		if result.HasSlideSize {
			PrintLabelValue("Slide size", fmt.Sprintf("%dx%d EMU", result.SlideWidth, result.SlideHeight))
		} else {
			PrintLabelValue("Slide size", "not set")
		}
		if result.FirstLayout != "" {
			PrintLabelValue("First layout", result.FirstLayout)
		} else {
			PrintLabelValue("First layout", "none")
		}
		fmt.Println()

		if len(result.Slides) == 0 {
			PrintEmptyState("No slides")
			return nil
		}

		rows := make([][]string, 0, len(result.Slides))
		for _, s := range result.Slides {
			rows = append(rows, []string{
				strconv.Itoa(s.Position),
				strconv.FormatUint(uint64(s.ID), 10),
				s.PartName,
				s.Layout,
				s.Title,
			})
		}
		PrintTable([]string{"#", "ID", "PART", "LAYOUT", "TITLE"}, rows)
		return nil
	},
}
