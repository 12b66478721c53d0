package cli

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vfx-pipeline/houdinictl/internal/collector"
)

// newCollectCommand creates the "collect" subcommand that runs the publish
// collector over a session document.
func newCollectCommand(opts *Options) *cobra.Command {
	var sessionPath string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect publishable items from a session document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, logger, err := loadEngine(cmd, opts)
			if err != nil {
				return err
			}

			sess, err := collector.LoadSession(sessionPath)
			if err != nil {
				return err
			}

			items, err := collector.New(eng, logger).Collect(sess)
			if err != nil {
				return err
			}

			logger.Info("collection finished", "items", len(items))

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer func() { _ = enc.Close() }()
			return enc.Encode(items)
		},
	}

	cmd.Flags().StringVar(&sessionPath, "session", "", "Path to the session document describing the current scene")
	_ = cmd.MarkFlagRequired("session")
	addVarFlags(cmd)
	return cmd
}
