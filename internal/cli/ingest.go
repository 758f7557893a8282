package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the corpus index from the document directory",
	Long: `Read every document under the configured source root, chunk and embed
it, and report corpus statistics. Chunks are embedded one at a time with
a pacing delay between calls.

Examples:
  auditrag ingest                 # Ingest the configured document root
  auditrag ingest -d /path/to/kb  # Ingest a specific project directory`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cfg, false)
	if err != nil {
		return err
	}
	defer p.Close()

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	p.ingest.Progress = func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	stats, err := p.ingest.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("\nIngest complete:\n")
	fmt.Printf("  Documents:      %d\n", stats.Documents)
	fmt.Printf("  Chunks:         %d\n", stats.Chunks)
	fmt.Printf("  Embedded:       %d\n", stats.Embedded)
	fmt.Printf("  Cache hits:     %d\n", stats.CacheHits)
	if stats.SkippedEmpty > 0 {
		fmt.Printf("  Skipped empty:  %d\n", stats.SkippedEmpty)
	}
	if stats.FailedFallback > 0 {
		fmt.Printf("  Zero-vector:    %d (embedding failed)\n", stats.FailedFallback)
	}
	fmt.Printf("  Elapsed:        %s\n", stats.Elapsed.Round(10*time.Millisecond))
	return nil
}
