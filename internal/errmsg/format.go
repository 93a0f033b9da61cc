// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Image operations
	OpImageLoad   Op = "load image"
	OpImageDecode Op = "decode image"
	OpImageFetch  Op = "fetch image"

	// Browser operations
	OpFolderOpen Op = "open folder"
	OpFolderScan Op = "scan folder"

	// Cache operations
	OpCacheOpen  Op = "open image cache"
	OpCacheClear Op = "clear image cache"

	// State operations
	OpStateLoad Op = "load saved state"
	OpStateSave Op = "save state"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
