package status

import (
	"fmt"
	"strings"

	"github.com/distcache/fixapi/pkg/rewrite"
	"github.com/distcache/fixapi/pkg/state"
	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 45 // Base width for filename
)

// FileFormatter defines how migration outcomes should be formatted
type FileFormatter interface {
	// FormatFileResult formats the outcome of running the rules on one file
	FormatFileResult(result rewrite.FileResult, dryRun bool) string

	// FormatProgress formats how far through the batch a run is
	FormatProgress(processed, total int) string

	// FormatError formats a failure line
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileResult formats a migration outcome with emojis
func (f *DefaultFileFormatter) FormatFileResult(result rewrite.FileResult, dryRun bool) string {
	switch result.Status {
	case rewrite.StatusFixed:
		if dryRun {
			return fmt.Sprintf("📝 Would fix %s", result.Path)
		}
		return fmt.Sprintf("🔧 Fixed %s", result.Path)
	case rewrite.StatusMissing:
		return fmt.Sprintf("⚠️ Skipped %s", result.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", result.Path)
	}
}

// FormatProgress formats how far through the batch a run is
func (f *DefaultFileFormatter) FormatProgress(processed, total int) string {
	percent := 100.0
	if total > 0 {
		percent = float64(processed) / float64(total) * 100
	} else if processed == 0 {
		percent = 0
	}

	if processed >= total {
		return fmt.Sprintf("✅ Migrated %d/%d files (%.0f%%)", processed, total, percent)
	}
	return fmt.Sprintf("⏳ Migrating %d/%d files (%.0f%%)", processed, total, percent)
}

// FormatError formats a failure line
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Migration error: %v", err)
}

// 🎯 FormatLedgerLine formats one file's ledger classification for display
func FormatLedgerLine(fileStatus state.FileStatus, path string) string {
	// Determine prefix symbol
	var prefix string
	switch fileStatus {
	case state.StatusMigrated:
		prefix = color.GreenString("✓")
	case state.StatusDrifted:
		prefix = color.YellowString("⟳")
	case state.StatusMissing:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, path)

	// Build final string with indentation
	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		fileStatus,
	)
}
