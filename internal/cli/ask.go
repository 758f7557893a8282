package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question from the command line",
	Long: `Ingest the document corpus, then answer one question and print the
answer with its sources. Arabic and English questions are both
supported.

Examples:
  auditrag ask "What is the internal audit charter?"
  auditrag ask "ما هي معايير التدقيق الداخلي؟"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	p, err := newPipeline(cfg, true)
	if err != nil {
		return err
	}
	defer p.Close()

	if _, err := p.ingest.Ingest(cmd.Context()); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	result, err := p.chat.Chat(question)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	fmt.Println()
	fmt.Println(result.Response)

	if len(result.Sources) > 0 {
		fmt.Println()
		color.New(color.FgCyan, color.Bold).Println("Sources:")
		for i, src := range result.Sources {
			fmt.Printf("  [%d] %s ", i+1, src)
			color.New(color.Faint).Printf("(score %.3f)\n", result.Scores[i])
		}
	}
	return nil
}
