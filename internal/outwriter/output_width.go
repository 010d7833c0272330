package outwriter

import (
	"os"

	"github.com/huangsam/proneness/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for method names in table output
// based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Commit + Score + Label with borders/padding
	baseWidth := 40

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	if available > 90 {
		return 90
	}
	return available
}
