package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sunpack/boxline/internal/jobs"
	"github.com/sunpack/boxline/internal/pipeline"
	"gorm.io/gorm"
)

func newStepCmd() *cobra.Command {
	var (
		configPath string
		userID     string
		reason     string
	)

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Step transition commands",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "boxline.yaml", "path to Boxline config file")
	cmd.PersistentFlags().StringVar(&userID, "user", "", "acting user id")
	cmd.MarkPersistentFlagRequired("user")

	run := func(action string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			jobNo, stepName := args[0], pipeline.StepName(args[1])
			gormDB, _, err := openDB(configPath)
			if err != nil {
				return err
			}
			if err := transitionStep(gormDB, action, jobNo, stepName, userID, reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s\n", action, jobNo, stepName)
			return nil
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start JOB_NO STEP",
		Short: "Start a step (prerequisites must have started)",
		Args:  cobra.ExactArgs(2),
		RunE:  run("start"),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stop JOB_NO STEP",
		Short: "Complete a step (prerequisites must have completed)",
		Args:  cobra.ExactArgs(2),
		RunE:  run("stop"),
	})

	holdCmd := &cobra.Command{
		Use:   "hold JOB_NO STEP",
		Short: "Put a running step on hold",
		Args:  cobra.ExactArgs(2),
		RunE:  run("hold"),
	}
	holdCmd.Flags().StringVar(&reason, "reason", "", "hold reason")
	cmd.AddCommand(holdCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "resume JOB_NO STEP",
		Short: "Resume a held step",
		Args:  cobra.ExactArgs(2),
		RunE:  run("resume"),
	})
	return cmd
}

func transitionStep(db *gorm.DB, action, jobNo string, stepName pipeline.StepName, userID, reason string) error {
	switch action {
	case "start":
		return jobs.StartStep(db, jobNo, stepName, userID)
	case "stop":
		return jobs.StopStep(db, jobNo, stepName, userID)
	case "hold":
		return jobs.HoldStep(db, jobNo, stepName, userID, reason)
	case "resume":
		return jobs.ResumeStep(db, jobNo, stepName, userID)
	}
	return fmt.Errorf("unknown action %q", action)
}
