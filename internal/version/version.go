// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version carries build-time metadata injected via ldflags.
package version

import "fmt"

// Info holds the build identification for a binary.
type Info struct {
	Version   string // semantic version from git tags, e.g. "v0.3.1"
	GitCommit string // short commit hash
	BuildTime string // RFC3339 build timestamp
}

// String renders the info in the form shown by the -version flag.
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	if i.GitCommit == "" {
		return v
	}
	return fmt.Sprintf("%s (%s, built %s)", v, i.GitCommit, i.BuildTime)
}
