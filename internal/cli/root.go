// Package cli implements atsctl, an operator tool over the matching pipeline.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"maplehr-backend/config"
	"maplehr-backend/internal/app"
	"maplehr-backend/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "atsctl"

// NewRootCmd builds the command tree. Flags are bound into a private viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           appName,
		Short:         "atsctl ingests resumes, scores applicants and exports match results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("database-url", "", "database URL, postgres://... or sqlite:<path> (default $DATABASE_URL)")
	root.PersistentFlags().String("storage-driver", "", "blob storage driver, s3 or local (default $STORAGE_DRIVER)")
	root.PersistentFlags().String("storage-dir", "", "root directory for the local storage driver (default $STORAGE_DIR)")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json output")

	for _, name := range []string{"database-url", "storage-driver", "storage-dir", "debug", "json"} {
		_ = v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	root.AddCommand(
		newIngestCmd(v),
		newScoreCmd(v),
		newHistoryCmd(v),
		newExportCmd(v),
		newDecisionCmd(v),
		newJobCmd(v),
		newApplicantCmd(v),
	)
	return root
}

// Execute runs atsctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if s := v.GetString("database-url"); s != "" {
		cfg.DBUrl = s
	}
	if s := v.GetString("storage-driver"); s != "" {
		cfg.StorageDriver = strings.ToLower(s)
	}
	if s := v.GetString("storage-dir"); s != "" {
		cfg.StorageDir = s
	}
	return cfg, nil
}

// withContainer opens every dependency for the duration of fn.
func withContainer(cmd *cobra.Command, v *viper.Viper, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.NewCLI(v.GetBool("debug"), v.GetBool("json"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}

func printJSON(w io.Writer, value interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
