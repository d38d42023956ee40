package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconLanguage = "🌐"
)

// Text fragments
const (
	ProgressUnknownTotal = "%d/?"
	ProgressFormat       = "%d/%d"
	MessageSeparator     = ": "
)

// Layout sizing
const (
	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 560
)

// Output view
const (
	// MaxLogLines kept in the output tab; the log file keeps everything
	MaxLogLines = 2000
)

// Notification behavior
const (
	NotificationAutoHide = 5 * time.Second
)
