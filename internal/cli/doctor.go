package cli

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/vfx-pipeline/houdinictl/internal/config"
)

// newDoctorCommand creates the "doctor" subcommand that runs configuration preflight checks.
func newDoctorCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run engine configuration preflight checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			loadOpts, err := loadOptionsFromFlags(cmd, opts)
			if err != nil {
				return err
			}

			cfg, _, err := config.LoadEngineConfig(opts.ConfigPath, loadOpts)
			if err != nil {
				return fmt.Errorf("load engine configuration: %w", err)
			}
			logger.Info("engine configuration loaded", "config", opts.ConfigPath)

			if err := cfg.Validate(); err != nil {
				var verr *config.ValidationError
				if errors.As(err, &verr) {
					for _, issue := range verr.Issues {
						logger.Error("validation issue", "issue", issue)
					}
				}
				return err
			}
			logger.Info("engine configuration is valid")

			eng, engLogger, err := loadEngine(cmd, opts)
			if err != nil {
				return err
			}

			if _, err := eng.StartupCommands(); err != nil {
				return fmt.Errorf("startup commands do not resolve: %w", err)
			}
			engLogger.Info("startup commands resolve", "count", len(cfg.RunAtStartup))

			if _, err := eng.LaunchPlan(); err != nil {
				return fmt.Errorf("plugin launch plan does not resolve: %w", err)
			}

			if _, err := exec.LookPath("hython"); err != nil {
				logger.Warn("hython binary not found in PATH, startup commands may not run inside Houdini")
			} else {
				logger.Info("hython binary found in PATH")
			}

			logger.Info("doctor checks completed successfully")
			return nil
		},
	}

	addVarFlags(cmd)
	return cmd
}
