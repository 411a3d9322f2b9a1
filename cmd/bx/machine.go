package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sunpack/boxline/internal/models"
)

func newMachineCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "machine",
		Short: "Machine and assignment commands",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "boxline.yaml", "path to Boxline config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			var machines []models.Machine
			if err := gormDB.Order("id").Find(&machines).Error; err != nil {
				return fmt.Errorf("list machines: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, m := range machines {
				state := "active"
				if !m.Active {
					state = "inactive"
				}
				fmt.Fprintf(out, "%-20s %-8s %-16s %s\n", m.ID, m.Code, m.Type, state)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "assign USER_ID MACHINE_ID",
		Short: "Assign a machine to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			var machine models.Machine
			if err := gormDB.First(&machine, "id = ?", args[1]).Error; err != nil {
				return fmt.Errorf("machine %s: %w", args[1], err)
			}
			row := models.UserMachine{UserID: args[0], MachineID: args[1], Active: true}
			if err := gormDB.Create(&row).Error; err != nil {
				return fmt.Errorf("assign %s to %s: %w", args[1], args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", args[1], args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unassign USER_ID MACHINE_ID",
		Short: "Deactivate a user's machine assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			result := gormDB.Model(&models.UserMachine{}).
				Where("user_id = ? AND machine_id = ? AND active = ?", args[0], args[1], true).
				Update("active", false)
			if result.Error != nil {
				return fmt.Errorf("unassign %s from %s: %w", args[1], args[0], result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("no active assignment of %s to %s", args[1], args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unassigned %s from %s\n", args[1], args[0])
			return nil
		},
	})
	return cmd
}
