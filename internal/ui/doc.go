// Package ui contains the Fyne-based desktop user interface. It collects job
// options in a form, drives the download runner, and renders progress and the
// tool output pushed by the runner's notifier. All UI strings are localized via
// Localization.
package ui
