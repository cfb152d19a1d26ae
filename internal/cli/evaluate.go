package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"askseer-mcp/internal/di"
	"askseer-mcp/internal/domain/entity"
	"askseer-mcp/internal/infrastructure/config"

	"github.com/spf13/cobra"
)

var errSamplingUnavailable = errors.New("the sampling provider needs an MCP client; pick openrouter, anthropic or langchain for local runs")

func newEvaluateCommand(f *flags) *cobra.Command {
	var (
		pageURL   string
		imagePath string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one page or screenshot and print the findings",
		Example: `  askseer evaluate --provider openrouter --url https://example.com
  askseer evaluate --provider anthropic --image screenshot.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := entity.EvaluationRequest{URL: pageURL}
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				req.Image = base64.StdEncoding.EncodeToString(data)
			}
			if req.URL == "" && req.Image == "" {
				return errors.New("one of --url or --image is required")
			}

			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cfg.LLM.Provider == config.ProviderSampling {
				return errSamplingUnavailable
			}

			container, err := di.NewContainer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			eval, err := container.Evaluator.Evaluate(cmd.Context(), req)
			if err != nil {
				var evalErr *entity.EvaluationError
				if errors.As(err, &evalErr) {
					return errors.New(evalErr.UserMessage())
				}
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), eval.Text)
			return err
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "page to render and evaluate")
	cmd.Flags().StringVar(&imagePath, "image", "", "PNG file to evaluate instead of a URL")
	cmd.MarkFlagsMutuallyExclusive("url", "image")
	return cmd
}
