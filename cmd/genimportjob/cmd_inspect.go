package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"importjob/cmd/genimportjob/ui"
	"importjob/internal/importjob"
)

// inspectCmd lists the sections of the script without writing anything.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the sections found in the import job script",
	Long: `Resolves and splits the import job script, then prints one row per
section with its position, classification and service key. Unlike the
default command it reports every problem instead of stopping at the first,
and never evaluates the source hash.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	gen := importjob.NewGenerator(newLocator(cfg, workspace))
	path, blocks, err := gen.LoadBlocks(commandContext(cmd))
	if err != nil {
		return err
	}

	results := importjob.Analyze(blocks)
	styles := ui.DefaultStyles()
	table := ui.NewSimpleTable(path, []string{"#", "Lines", "Kind", "Key", "Problem"})

	problems := 0
	for i, a := range results {
		key := a.Key
		switch a.Classification.Kind {
		case importjob.KindCommonConfig, importjob.KindDefaultImportJob, importjob.KindDefaultRules:
			key = a.Classification.Kind.String()
		}
		problem := ""
		if a.Err != nil {
			problem = a.Err.Error()
			problems++
		}
		table.AddRow(
			strconv.Itoa(i+1),
			fmt.Sprintf("%d-%d", a.Block.StartLine, a.Block.EndLine()),
			a.Classification.Kind.String(),
			key,
			problem,
		)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, table.View(styles))
	if problems > 0 {
		fmt.Fprintln(out, styles.Error.Render(fmt.Sprintf("%d of %d sections cannot be converted", problems, len(results))))
		return fmt.Errorf("%d problem sections", problems)
	}
	fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("%d sections OK", len(results))))
	return nil
}
