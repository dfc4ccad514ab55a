// Utilities for reading the Hoist config files.

package core

import (
	"os"
	"time"

	"github.com/please-build/gcfg"
	"gopkg.in/op/go-logging.v1"

	"github.com/hoist-build/hoist/src/cli"
)

var log = logging.MustGetLogger("core")

// ConfigFileName is the file name for the typical repo config - this is normally checked in.
const ConfigFileName = ".hoistconfig"

// LocalConfigFileName is the file name for the local repo config - not normally checked
// in and used to override settings on the local machine.
const LocalConfigFileName = ".hoistconfig.local"

// MachineConfigFileName is the file name for the machine-level config - can be used to
// override things for a particular machine (eg. build machine with different caching behaviour).
const MachineConfigFileName = "/etc/hoistconfig"

// DefaultConfiguration returns a configuration with the default values filled in.
func DefaultConfiguration() *Configuration {
	config := Configuration{}
	config.Remote.MetadataTTL = cli.Duration(6 * time.Hour)
	return &config
}

// ReadConfigFiles reads the config files from the given locations, in order.
// Values are filled in by defaults initially and then overridden by each file in turn.
func ReadConfigFiles(filenames []string) (*Configuration, error) {
	config := DefaultConfiguration()
	for _, filename := range filenames {
		if err := readConfigFile(config, filename); err != nil {
			return config, err
		}
	}
	return config, nil
}

func readConfigFile(config *Configuration, filename string) error {
	if err := gcfg.ReadFileInto(config, filename); err != nil && os.IsNotExist(err) {
		return nil // It's not an error to not have the file at all.
	} else if err != nil {
		return err
	}
	log.Debug("Read config from %s", filename)
	return nil
}

// A Configuration contains all the settings that can be configured about Hoist.
// This is parsed from .hoistconfig files in gcfg format.
type Configuration struct {
	Remote struct {
		Instance              string       `help:"Remote instance name to request from the server."`
		DownloadOutputs       bool         `help:"Download the outputs of requested top-level targets to local disk after building them remotely."`
		OutputDownloadPattern []string     `help:"Regular expressions matching additional output paths to download regardless of other policy. Can be repeated."`
		MetadataTTL           cli.Duration `help:"How long cached remote metadata records remain trustworthy for."`
	} `help:"Settings controlling remote build execution and output materialization."`
	Metrics struct {
		PrometheusGatewayURL string `help:"URL of a Prometheus pushgateway to report metrics to."`
	} `help:"Settings for metrics reporting."`
}
