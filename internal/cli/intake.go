package cli

import (
	"context"
	"errors"
	"fmt"

	"maplehr-backend/internal/app"
	"maplehr-backend/internal/domain"
	"maplehr-backend/internal/usecase"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newJobCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage job openings",
	}

	var job domain.JobPosting
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a job opening",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, v, func(ctx context.Context, c *app.Container) error {
				if err := c.Intake.CreateJob(ctx, &job); err != nil {
					return err
				}
				if v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), job)
				}
				fmt.Fprintln(cmd.OutOrStdout(), job.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&job.Title, "title", "", "job title")
	add.Flags().StringVar(&job.Department, "department", "", "department")
	add.Flags().StringVar(&job.Description, "description", "", "job description")
	_ = add.MarkFlagRequired("title")

	cmd.AddCommand(add)
	return cmd
}

func newApplicantCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applicant",
		Short: "Manage applicants",
	}

	var applicant domain.Applicant
	add := &cobra.Command{
		Use:   "add",
		Short: "Register an applicant for a job opening",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, v, func(ctx context.Context, c *app.Container) error {
				if err := c.Intake.RegisterApplicant(ctx, &applicant); err != nil {
					return err
				}
				if v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), applicant)
				}
				fmt.Fprintln(cmd.OutOrStdout(), applicant.ID)
				return nil
			})
		},
	}
	add.Flags().Int64Var(&applicant.JobID, "job", 0, "job opening id")
	add.Flags().StringVar(&applicant.FullName, "name", "", "full name")
	add.Flags().StringVar(&applicant.ID, "id", "", "applicant id (default is a new uuid)")
	_ = add.MarkFlagRequired("job")
	_ = add.MarkFlagRequired("name")

	cmd.AddCommand(add)
	return cmd
}

var errAborted = errors.New("aborted")

func newDecisionCmd(v *viper.Viper) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "decision APPLICANT_ID approved|declined|on-hold",
		Short: "Record the recruiter decision for an applicant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision, ok := usecase.NormalizeDecision(args[1])
			if !ok {
				return fmt.Errorf("decision must be approved, declined or on-hold, got %q", args[1])
			}
			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Record %s for %s", decision, args[0]),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					return errAborted
				}
			}
			return withContainer(cmd, v, func(ctx context.Context, c *app.Container) error {
				if err := c.Review.SetDecision(ctx, args[0], decision); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], decision)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
