package progress

// Package progress turns the human-readable output of the external downloader
// into progress events. The matching rules are text heuristics over the tool's
// log phrasing and live behind the Classifier interface so they can be replaced
// without touching the runner.
