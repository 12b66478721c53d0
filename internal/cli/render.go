package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vfx-pipeline/houdinictl/internal/config"
)

// renderedFile pairs an output file name with its rendered content.
type renderedFile struct {
	name string
	data []byte
}

// newRenderCommand creates the "render" subcommand that prints the templated
// engine document and any additional template files.
func newRenderCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [template-file...]",
		Short: "Render the engine configuration document with templates applied",
		Long: "Render prints the engine configuration document with templates applied. " +
			"Additional template files (wrapper scripts, plugin entry templates) are " +
			"rendered with the same context and helpers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			loadOpts, err := loadOptionsFromFlags(cmd, opts)
			if err != nil {
				return err
			}

			rendered, tctx, err := config.LoadAndRender(opts.ConfigPath, loadOpts)
			if err != nil {
				return err
			}

			outputs := []renderedFile{{name: "engine.rendered.yaml", data: rendered}}
			for _, arg := range args {
				raw, err := os.ReadFile(arg)
				if err != nil {
					return fmt.Errorf("read template file %q: %w", arg, err)
				}
				out, err := config.RenderTemplate(filepath.Base(arg), raw, tctx)
				if err != nil {
					return err
				}
				outputs = append(outputs, renderedFile{name: filepath.Base(arg), data: out})
			}

			outputDir := cmd.Flag("output").Value.String()
			if outputDir == "" {
				for _, out := range outputs {
					if _, err := os.Stdout.Write(out.data); err != nil {
						return err
					}
				}
				return nil
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", outputDir, err)
			}
			for _, out := range outputs {
				outPath := filepath.Join(outputDir, out.name)
				if err := os.WriteFile(outPath, out.data, 0o644); err != nil {
					return fmt.Errorf("write rendered file to %q: %w", outPath, err)
				}
				logger.Info("rendered file written", "path", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output directory for the rendered files (if empty, prints to stdout)")
	addVarFlags(cmd)
	return cmd
}
