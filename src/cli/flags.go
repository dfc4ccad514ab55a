// Package cli contains helper types related to flag parsing and logging.
package cli

import (
	cli "github.com/peterebden/go-cli-init/v5/flags"
)

// A Duration is an alias for a time.Duration that can be parsed from
// human-readable values in flags and config files (eg. "10s" or "5m").
type Duration = cli.Duration
