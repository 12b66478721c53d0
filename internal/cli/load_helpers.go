package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vfx-pipeline/houdinictl/internal/config"
	"github.com/vfx-pipeline/houdinictl/internal/engine"
	"github.com/vfx-pipeline/houdinictl/internal/env"
	"github.com/vfx-pipeline/houdinictl/internal/logging"
)

// loadOptionsFromFlags assembles config.LoadOptions from the shared flags and
// HOUDINICTL_* env fallbacks.
func loadOptionsFromFlags(cmd *cobra.Command, opts *Options) (config.LoadOptions, error) {
	varsFlag := cmd.Flag("vars").Value.String()
	varFileFlag := cmd.Flag("var-file").Value.String()

	var fromEnv varsEnv
	_ = parseEnv(&fromEnv)
	if varsFlag == "" {
		varsFlag = fromEnv.Vars
	}
	if varFileFlag == "" {
		varFileFlag = fromEnv.VarFile
	}

	inlineVars, err := env.ParseInlineVars(varsFlag)
	if err != nil {
		return config.LoadOptions{}, err
	}

	var varFiles []string
	if varFileFlag != "" {
		varFiles = append(varFiles, varFileFlag)
	}

	return config.LoadOptions{
		Context:  opts.Context,
		UserVars: inlineVars,
		VarFiles: varFiles,
	}, nil
}

// addVarFlags registers the template variable flags shared by most commands.
func addVarFlags(cmd *cobra.Command) {
	cmd.Flags().String("vars", "", "Additional template variables in k=v,k2=v2 format")
	cmd.Flags().String("var-file", "", "Path to a .env-style file with additional template variables")
}

// loadEngine loads and validates the engine configuration, then builds the
// engine and a logger honouring the debug_logging setting.
func loadEngine(cmd *cobra.Command, opts *Options) (*engine.Engine, *slog.Logger, error) {
	loadOpts, err := loadOptionsFromFlags(cmd, opts)
	if err != nil {
		return nil, nil, err
	}

	cfg, _, err := config.LoadEngineConfig(opts.ConfigPath, loadOpts)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(os.Stderr, logging.Effective(opts.LogLevel, cfg.DebugLoggingEnabled()))

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return eng, logger, nil
}
