package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/config"
	"github.com/atakamran/liftlegends-sub000/internal/database"
	"github.com/atakamran/liftlegends-sub000/internal/logging"
	"github.com/atakamran/liftlegends-sub000/internal/mailer"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/atakamran/liftlegends-sub000/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	profileBackend  string
	profileEmail    string
	profilePassword string
	profileOut      string
	profileFile     string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Export or import a user's profile file",
	Long: `Export or import a user's profile file.

Both subcommands sign in as the user on the chosen backend; the profile
is always read from or written to that user's own row.`,
}

var profileExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the user's profile to <backend>_export_<ms>.json",
	RunE:  runProfileExport,
}

var profileImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge the first profile of an export file into the user's profile",
	RunE:  runProfileImport,
}

func init() {
	for _, cmd := range []*cobra.Command{profileExportCmd, profileImportCmd} {
		cmd.Flags().StringVar(&profileBackend, "backend", "", "backend to sign in on (postgres or mongo)")
		cmd.Flags().StringVar(&profileEmail, "email", "", "account email")
		cmd.Flags().StringVar(&profilePassword, "password", "", "account password")
		_ = cmd.MarkFlagRequired("backend")
		_ = cmd.MarkFlagRequired("email")
		_ = cmd.MarkFlagRequired("password")
	}
	profileExportCmd.Flags().StringVar(&profileOut, "out", ".", "directory to write the export file to")
	profileImportCmd.Flags().StringVar(&profileFile, "file", "", "export file to import")
	_ = profileImportCmd.MarkFlagRequired("file")

	profileCmd.AddCommand(profileExportCmd, profileImportCmd)
}

type cliEnv struct {
	migration *services.MigrationService
	session   *session.Session
	logger    *zap.Logger
	close     func()
}

func signIn(ctx context.Context) (*cliEnv, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	registry, closeBackends, err := database.ConnectBackends(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	b, ok := registry.Get(profileBackend)
	if !ok {
		closeBackends()
		return nil, fmt.Errorf("backend %q is not configured (have %v)", profileBackend, registry.Names())
	}

	var notifier mailer.Notifier = mailer.NewLogNotifier(logger)
	if cfg.MailEnabled() {
		notifier = mailer.NewResendNotifier(cfg.ResendAPIKey, cfg.MailFrom)
	}
	auth := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, logger)

	result, err := auth.SignIn(ctx, b, profileEmail, profilePassword)
	if err != nil {
		closeBackends()
		return nil, fmt.Errorf("sign in on %s: %w", profileBackend, err)
	}

	return &cliEnv{
		migration: services.NewMigrationService(auth, notifier, logger),
		session:   result.Session,
		logger:    logger,
		close: func() {
			closeBackends()
			_ = logger.Sync()
		},
	}, nil
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	env, err := signIn(cmd.Context())
	if err != nil {
		return err
	}
	defer env.close()

	doc, err := env.migration.ExportProfile(cmd.Context(), env.session)
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(profileOut, models.ExportFilename(env.session.BackendName(), time.Now()))
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return err
	}
	env.logger.Info("profile exported", zap.String("file", path), zap.Int("profiles", len(doc.Profiles)))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(profileFile)
	if err != nil {
		return err
	}

	env, err := signIn(cmd.Context())
	if err != nil {
		return err
	}
	defer env.close()

	result, err := env.migration.ImportProfile(cmd.Context(), env.session, raw)
	if err != nil {
		return err
	}
	if !result.Imported {
		fmt.Fprintln(cmd.OutOrStdout(), "export file has no profiles, nothing imported")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported profile into %s account %s\n", env.session.BackendName(), env.session.Identity.Email)
	return nil
}
