package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Proneness label constants.
const (
	CriticalValue = "Critical" // Critical value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
	MissingValue  = "?"        // Unlabeled row
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
)

// GetPlainLabel returns a plain text label for a bug-proneness score in [0, 1].
// Missing scores get MissingValue.
func GetPlainLabel(score float64) string {
	switch {
	case math.IsNaN(score):
		return MissingValue
	case score >= 0.8:
		return CriticalValue
	case score >= 0.6:
		return HighValue
	case score >= 0.4:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	case LowValue:
		return LowColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// SplitOutputPaths derives the labeled and unlabeled file names for --split
// output, e.g. "features.arff" becomes "features.train.arff" and "features.predict.arff".
func SplitOutputPaths(filePath, ext string) (train, predict string) {
	if filePath == "" {
		filePath = "features." + ext
	}
	base := strings.TrimSuffix(filePath, filepath.Ext(filePath))
	suffix := filepath.Ext(filePath)
	if suffix == "" {
		suffix = "." + ext
	}
	return base + ".train" + suffix, base + ".predict" + suffix
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the commit cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".proneness_cache.db"
	}
	return filepath.Join(homeDir, ".proneness_cache.db")
}

// GetDataSetDBFilePath returns the path to the SQLite DB file for stored datasets.
func GetDataSetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".proneness_datasets.db"
	}
	return filepath.Join(homeDir, ".proneness_datasets.db")
}

// TruncateName truncates a method name to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the prefix and one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
