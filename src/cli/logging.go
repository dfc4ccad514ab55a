// Contains utility functions related to logging.

package cli

import (
	clilogging "github.com/peterebden/go-cli-init/v5/logging"
)

// A Verbosity is used as a flag to define logging verbosity.
type Verbosity = clilogging.Verbosity

// MinVerbosity is the minimum verbosity we support.
const MinVerbosity = clilogging.MinVerbosity

// MaxVerbosity is the maximum verbosity we support.
const MaxVerbosity = clilogging.MaxVerbosity

// InitLogging initialises the logging backends at the given verbosity.
func InitLogging(verbosity Verbosity) {
	clilogging.InitLogging(verbosity)
}
