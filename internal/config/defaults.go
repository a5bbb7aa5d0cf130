package config

import (
	"github.com/roach88/valiblox/internal/reconcile"
	"github.com/roach88/valiblox/internal/register"
)

// DefaultIgnore skips archive litter left by macOS and Windows.
var DefaultIgnore = []string{"__MACOSX/**", "**/.DS_Store", "**/Thumbs.db"}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"fuzzy_threshold":    reconcile.DefaultFuzzyThreshold,
		"workers":            0,
		"identifier_columns": append([]string(nil), register.DefaultIdentifierColumns...),
		"strict_codes":       false,
		"ignore":             append([]string(nil), DefaultIgnore...),
		"history_db":         "~/.valiblox/history.db",
		"record_history":     true,
	}
}
