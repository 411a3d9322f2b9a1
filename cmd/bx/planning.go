package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sunpack/boxline/internal/jobs"
)

func newPlanningCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "planning",
		Short: "Planning commands",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "boxline.yaml", "path to Boxline config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Import a planning revision from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			payload, err := jobs.ParsePlanningPayload(data)
			if err != nil {
				return err
			}
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			planning, err := jobs.ImportPlanning(gormDB, payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s revision %d (%d steps)\n",
				planning.JobNo, planning.Revision, len(payload.Steps))
			return nil
		},
	})
	return cmd
}
