package main

import (
	"github.com/spf13/cobra"

	"importjob/cmd/genimportjob/ui"
	"importjob/internal/importjob"
)

// servicesCmd prints the known "Rules for" labels and their document keys.
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List recognized service labels and their JSON keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := ui.NewSimpleTable("Services", []string{"Label", "Key"})
		for _, label := range importjob.ServiceLabels() {
			key, _ := importjob.LookupService(label)
			table.AddRow(label, key)
		}
		_, err := cmd.OutOrStdout().Write([]byte(table.View(ui.DefaultStyles())))
		return err
	},
}
