package config

import "io"

// Configures a writer that every kept trace is exported to as it is
// found.
//
// Can be applied multiple times to add multiple writers.
// Default value is no writers.
type ExportOption struct {
	W io.Writer
}

func (eo ExportOption) SCTOpt() {}

// Configures the debug hooks used to render and print each run's
// failure and each kept trace during exploration.
//
// Default value is a no-op show/print pair.
type DebugOption struct {
	Show  func(any) string
	Print func(string)
}

func (do DebugOption) SCTOpt() {}
