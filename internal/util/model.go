package util

import (
	"regexp"
	"strings"
)

var modelDateSuffix = regexp.MustCompile(`-(\d{8}|\d{4}-\d{2}-\d{2})$`)

// ShortModelName drops the provider prefix and release date from a model identifier:
// "anthropic/claude-3-5-sonnet-20241022" -> "claude-3-5-sonnet"
func ShortModelName(modelName string) string {
	name := strings.TrimSpace(modelName)
	if name == "" {
		return "Unknown"
	}
	if idx := strings.LastIndex(name, "/"); idx >= 0 && idx < len(name)-1 {
		name = name[idx+1:]
	}
	return modelDateSuffix.ReplaceAllString(name, "")
}
