package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/deckmerge/internal/engine"
)

var (
	mergeSource      string
	mergeTarget      string
	mergeOutput      string
	mergeSlides      string
	mergeDryRun      bool
	mergeOnMalformed string
)

func registerMergeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&mergeSource, "source", "s", "", "Presentation to copy slides from")
	cmd.Flags().StringVarP(&mergeTarget, "target", "t", "", "Presentation to append slides to (not modified)")
	cmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output file (default <target>_merged.pptx)")
	cmd.Flags().StringVar(&mergeSlides, "slides", "", `Slides to copy, e.g. "2,4-6" (default all)`)
	cmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Show what would be copied without writing anything")
	cmd.Flags().StringVar(&mergeOnMalformed, "on-malformed", "", "Policy for slides without content: repair or reject")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagFilename("source", "pptx")
	_ = cmd.MarkFlagFilename("target", "pptx")
	_ = cmd.MarkFlagFilename("output", "pptx")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng := newEngine(cfg)

	req := &engine.MergeRequest{
		SourcePath:      mergeSource,
		TargetPath:      mergeTarget,
		OutputPath:      mergeOutput,
		Slides:          mergeSlides,
		DryRun:          mergeDryRun,
		MalformedPolicy: mergeOnMalformed,
	}

	result, err := eng.Merge(cmd.Context(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	if mergeDryRun {
		printMergePlan(result)
		return nil
	}
	printMergeResult(result)
	return nil
}

func printMergePlan(result *engine.MergeResult) {
	PrintSection("Dry Run")
	PrintInfo(fmt.Sprintf("Would copy %s into %s",
		PrintCount(len(result.Plan.Operations), "slide", "slides"), result.OutputPath))
	if len(result.Plan.Operations) > 0 {
		PrintSubsection("Slides:")
		rows := make([][]string, 0, len(result.Plan.Operations))
		for i, op := range result.Plan.Operations {
			rows = append(rows, []string{
				strconv.Itoa(op.SourceNumber),
				strconv.Itoa(result.TargetSlides + i + 1),
				strconv.FormatUint(uint64(op.NewSlideID), 10),
			})
		}
		PrintTable([]string{"SOURCE", "POSITION", "SLIDE ID"}, rows)
	}
	printWarnings(result.Warnings)
}

func printMergeResult(result *engine.MergeResult) {
	if len(result.Copied) == 0 {
		PrintWarning("No slides copied")
	} else {
		PrintSuccess(fmt.Sprintf("Copied %s", PrintCount(len(result.Copied), "slide", "slides")))
	}
	PrintLabelValueWithColor("Output", result.OutputPath, successColor)
	PrintLabelValue("Slides", fmt.Sprintf("%d (target %d + %d copied)",
		result.OutputSlides, result.TargetSlides, len(result.Copied)))

	if len(result.Copied) > 0 {
		PrintSubsection("Copied:")
		items := make([]string, 0, len(result.Copied))
		for _, c := range result.Copied {
			item := fmt.Sprintf("source slide %d -> slide %d (id %d)", c.SourceNumber, c.Position, c.NewSlideID)
			if len(c.Parts) > 0 {
				item += fmt.Sprintf(", %s", PrintCount(len(c.Parts), "part", "parts"))
			}
			if c.Repaired {
				item += ", repaired"
			}
			items = append(items, item)
		}
		PrintList(items, 1)
	}
	printWarnings(result.Warnings)
}

func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Println()
	for _, w := range warnings {
		PrintWarning(w)
	}
}
