package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sunpack/boxline/internal/access"
	"github.com/sunpack/boxline/internal/jobs"
)

func newJobCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "job",
		Short: "Job commands",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "boxline.yaml", "path to Boxline config file")

	cmd.AddCommand(newJobCreateCmd(&configPath))
	cmd.AddCommand(newJobListCmd(&configPath))
	cmd.AddCommand(newJobShowCmd(&configPath))
	return cmd
}

func newJobCreateCmd(configPath *string) *cobra.Command {
	var opts jobs.CreateJobOpts

	cmd := &cobra.Command{
		Use:   "create JOB_NO",
		Short: "Create a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, _, err := openDB(*configPath)
			if err != nil {
				return err
			}
			opts.JobNo = args[0]
			job, err := jobs.CreateJob(gormDB, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s demand)\n", job.JobNo, job.DemandTier)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&opts.DemandTier, "tier", "normal", "demand tier (normal|high)")
	cmd.Flags().StringVar(&opts.MachineID, "machine", "", "legacy job-level machine assignment")
	cmd.Flags().StringVar(&opts.BoardSize, "board", "", "board size")
	cmd.Flags().IntVar(&opts.Quantity, "qty", 0, "order quantity")
	return cmd
}

func newJobListCmd(configPath *string) *cobra.Command {
	var (
		userID string
		roles  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs visible to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, _, err := openDB(*configPath)
			if err != nil {
				return err
			}
			roleSet := access.ParseRoles(roles)
			machines, err := access.ResolveUserMachineIDs(gormDB, userID, roleSet)
			if err != nil {
				return err
			}
			visible, err := jobs.ListVisible(gormDB, access.New(nil), roleSet, machines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, info := range visible {
				fmt.Fprintf(out, "%s\t%s\t%d steps\n", info.JobNo, info.DemandTier, len(info.Steps))
			}
			fmt.Fprintf(out, "%d jobs visible\n", len(visible))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "acting user id")
	cmd.Flags().StringVar(&roles, "roles", "", "acting user roles (bare tag or JSON list)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newJobShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show JOB_NO",
		Short: "Show a job's steps and machine assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, _, err := openDB(*configPath)
			if err != nil {
				return err
			}
			snapshot, err := jobs.Snapshot(gormDB)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, info := range snapshot {
				if info.JobNo != args[0] {
					continue
				}
				fmt.Fprintf(out, "%s (%s demand)\n", info.JobNo, info.DemandTier)
				for _, s := range info.Steps {
					machines := ""
					for _, m := range s.Machines {
						machines += " " + m.ID
					}
					fmt.Fprintf(out, "  %-30s %-8s%s\n", s.Name, s.Status, machines)
				}
				return nil
			}
			return fmt.Errorf("job %s not found", args[0])
		},
	}
}
