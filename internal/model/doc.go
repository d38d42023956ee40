package model

// Package model defines domain data structures used across the app: job
// options and their enumerations, job status and snapshots, log lines and the
// error taxonomy shared by the runner and the UI.
