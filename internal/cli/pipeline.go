package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"maplehr-backend/internal/app"
	"maplehr-backend/internal/domain"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newIngestCmd(v *viper.Viper) *cobra.Command {
	var (
		jobID       int64
		applicantID string
		mimeType    string
	)
	cmd := &cobra.Command{
		Use:   "ingest FILE",
		Short: "Store a resume for an applicant and extract its text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withContainer(cmd, v, func(ctx context.Context, c *app.Container) error {
				res, err := c.Ingestion.Ingest(ctx, domain.IngestRequest{
					File:        data,
					FileName:    filepath.Base(args[0]),
					MimeType:    mimeType,
					JobID:       jobID,
					ApplicantID: applicantID,
				})
				if err != nil {
					return err
				}
				if v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "stored resume for %s (text extracted: %t)\n", applicantID, res.HasExtractedText)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&jobID, "job", 0, "job opening id")
	cmd.Flags().StringVar(&applicantID, "applicant", "", "applicant id")
	cmd.Flags().StringVar(&mimeType, "mime-type", "", "content type; sniffed from the file when empty")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("applicant")
	return cmd
}

func newScoreCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "score APPLICANT_ID",
		Short: "Score an applicant against their job opening and record the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, v, func(ctx context.Context, c *app.Container) error {
				res, err := c.Scoring.Score(ctx, args[0])
				if err != nil {
					return err
				}
				if v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), res)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "match rate: %d%%\n", res.MatchRatePercent)
				names := make([]string, 0, len(res.Metrics))
				for name := range res.Metrics {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "  %s: %g\n", name, res.Metrics[name])
				}
				return nil
			})
		},
	}
}

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "history APPLICANT_ID",
		Short: "List an applicant's match results, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, v, func(ctx context.Context, c *app.Container) error {
				history, err := c.Review.MatchHistory(ctx, args[0])
				if err != nil {
					return err
				}
				if v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), history)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tMATCH RATE\tSCORED AT")
				for _, m := range history {
					fmt.Fprintf(tw, "%d\t%d%%\t%s\n", m.ID, m.MatchRatePercent, m.ComputedAt.UTC().Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}
}

func newExportCmd(v *viper.Viper) *cobra.Command {
	var (
		jobID  int64
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a job's applicants with their latest scores to xlsx or csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, v, func(ctx context.Context, c *app.Container) error {
				data, name, err := c.Review.ExportJobMatches(ctx, jobID, format)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = name
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&jobID, "job", 0, "job opening id")
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default is the generated file name)")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}
