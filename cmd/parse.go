package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nlxchange/intent-engine/internal/app"
	"github.com/nlxchange/intent-engine/internal/engine"
	"github.com/nlxchange/intent-engine/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var parseCmd = &cobra.Command{
	Use:   "parse [instruction]",
	Short: "Parse and validate a single instruction",
	Long: `Runs one instruction through the full pipeline and prints the
resulting draft, validation outcome and response text as JSON.

Useful for checking how an instruction is interpreted without starting
the server:

  intent-engine parse "swap 1 ETH to USDC"
  intent-engine parse "sell 100 UNI if price >= 15"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	text := strings.Join(args, " ")
	resp := application.Engine().ParseTurn(cmd.Context(), engine.ParseRequest{Text: text})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	err = enc.Encode(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}
