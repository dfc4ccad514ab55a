// Package remote implements the remote output materialization layer: the logic
// that decides, for every artifact a remotely-executed action produces or
// consumes, whether a byte-for-byte local copy must be fetched or whether the
// build can keep operating on a lightweight remote reference.
package remote

import (
	"fmt"

	deferredregex "github.com/peterebden/go-deferred-regex"
	"gopkg.in/op/go-logging.v1"

	"github.com/hoist-build/hoist/src/core"
	"github.com/hoist-build/hoist/src/cset"
)

var log = logging.MustGetLogger("remote")

// A CommandMode classifies the command that started this invocation.
// It is fixed once per invocation and drives the default download policy for
// top-level outputs.
type CommandMode int

const (
	// CommandUnknown covers any command we don't have a specific policy for.
	CommandUnknown CommandMode = iota
	// CommandBuild is a plain build invocation.
	CommandBuild
	// CommandTest is a test invocation.
	CommandTest
	// CommandRun builds a target and immediately executes it locally.
	CommandRun
	// CommandCoverage is a test invocation with coverage collection.
	CommandCoverage
)

// parseCommandMode maps a raw command name onto a CommandMode.
// Unrecognised names are not an error; they degrade to CommandUnknown, which
// follows the configured flag alone.
func parseCommandMode(name string) CommandMode {
	switch name {
	case "build":
		return CommandBuild
	case "test":
		return CommandTest
	case "run":
		return CommandRun
	case "coverage":
		return CommandCoverage
	default:
		return CommandUnknown
	}
}

// An OutputChecker holds the download intents of a single invocation and answers
// the execution scheduler's questions about them: what must be fetched while an
// action is still running, what can be fetched in the background afterwards, and
// whether an already-known remote metadata record can still be trusted.
//
// It is constructed once per invocation and is safe for unsynchronised use from
// any number of goroutines; all its operations are in-memory set lookups plus at
// most one clock read.
type OutputChecker struct {
	clock            core.Clock
	mode             CommandMode
	downloadToplevel bool
	patterns         []deferredregex.DeferredRegex

	// Artifacts belonging to requested top-level targets, including their
	// generated runfiles. Grows as analysis results arrive; never shrinks.
	toplevel *cset.Set[string]
	// Artifacts that locally-executed actions have declared as needed inputs.
	localInputs *cset.Set[string]

	metrics *outputMetrics
}

// NewOutputChecker creates an OutputChecker for one invocation of the given
// command. downloadToplevel is the configured default for fetching top-level
// outputs; patternsToDownload are regular expressions matched in full against
// exec-relative output paths.
func NewOutputChecker(clock core.Clock, commandName string, downloadToplevel bool, patternsToDownload []string) *OutputChecker {
	patterns := make([]deferredregex.DeferredRegex, len(patternsToDownload))
	for i, p := range patternsToDownload {
		// Mimic full-string matching; a pattern matching a substring of a path is not a match.
		patterns[i] = deferredregex.DeferredRegex{Re: `\A(?:` + p + `)\z`}
	}
	return &OutputChecker{
		clock:            clock,
		mode:             parseCommandMode(commandName),
		downloadToplevel: downloadToplevel,
		patterns:         patterns,
		toplevel:         cset.New[string](cset.DefaultShardCount, cset.XXHash),
		localInputs:      cset.New[string](cset.DefaultShardCount, cset.XXHash),
		metrics:          newOutputMetrics(),
	}
}

// NewOutputCheckerFromConfig creates an OutputChecker from the [remote] section
// of the given configuration.
func NewOutputCheckerFromConfig(clock core.Clock, commandName string, config *core.Configuration) *OutputChecker {
	return NewOutputChecker(clock, commandName, config.Remote.DownloadOutputs, config.Remote.OutputDownloadPattern)
}

// AfterTopLevelTargetAnalysis registers a single top-level target as soon as its
// analysis result is known, without waiting for the analysis phase to finish.
// The top-level artifact context may itself not be known yet at registration
// time, hence it arrives as a supplier.
// Registering the same target more than once is safe and has no further effect.
func (c *OutputChecker) AfterTopLevelTargetAnalysis(target core.ConfiguredTarget, contextSupplier func() *core.TopLevelArtifactContext) {
	c.addTopLevelTarget(target, contextSupplier)
}

// AfterAnalysis registers every requested target of a completed analysis phase,
// including any requested test targets.
func (c *OutputChecker) AfterAnalysis(result *core.AnalysisResult) {
	for _, target := range result.TargetsToBuild {
		c.addTopLevelTarget(target, result.TopLevelContext)
	}
	for _, target := range result.TargetsToTest {
		c.addTopLevelTarget(target, result.TopLevelContext)
	}
}

func (c *OutputChecker) addTopLevelTarget(target core.ConfiguredTarget, contextSupplier func() *core.TopLevelArtifactContext) {
	if !c.shouldDownloadToplevelOutputs(target) {
		log.Debug("Outputs of %s will stay remote", target.Label())
		return
	}
	for _, artifact := range target.ImportantArtifacts(contextSupplier()) {
		c.toplevel.Add(artifact.ExecPath())
	}
	c.addRunfiles(target)
}

func (c *OutputChecker) addRunfiles(target core.ConfiguredTarget) {
	provider := target.FilesToRun()
	if provider == nil {
		return
	}
	support := provider.RunfilesSupport()
	if support == nil {
		return
	}
	for _, runfile := range support.Artifacts() {
		// Source files already exist locally; only generated runfiles can be remote.
		if runfile.IsSource() {
			continue
		}
		c.toplevel.Add(runfile.ExecPath())
	}
}

// AddInputToDownload registers an artifact that a locally-executed action has
// declared as a needed input, so its bytes will be fetched before that action runs.
func (c *OutputChecker) AddInputToDownload(artifact *core.Artifact) {
	c.localInputs.Add(artifact.ExecPath())
}

// shouldDownloadToplevelOutputs is the per-target default download stance for the
// current command mode.
func (c *OutputChecker) shouldDownloadToplevelOutputs(target core.ConfiguredTarget) bool {
	switch c.mode {
	case CommandRun:
		// The target is about to be executed locally so its outputs are always needed.
		return true
	case CommandTest, CommandCoverage:
		// Don't download the test binaries themselves; they are consumed by the
		// test execution step, not by the invoking user.
		if rule, ok := target.(*core.RuleTarget); ok {
			return !core.IsTestRuleName(rule.RuleClass) && c.downloadToplevel
		}
		return c.downloadToplevel
	default:
		return c.downloadToplevel
	}
}

// ShouldDownloadDuringExecution returns true if the given output must be fetched
// while its producing action is still executing, before the target-complete
// signal fires. Tree artifacts are accepted here since the content of a tree
// can't be known before the action has run.
func (c *OutputChecker) ShouldDownloadDuringExecution(output *core.Artifact) bool {
	// Top-level artifacts are fetched within action execution so that by the time
	// the target-complete event is emitted, the bytes already exist locally.
	// Inputs to local actions are fetched within action execution so those actions
	// aren't left waiting on a background fetch they can't observe.
	if c.isToplevel(output) || c.isLocalInput(output) {
		c.metrics.syncDownloads.Inc()
		return true
	}
	return false
}

// ShouldDownloadInBackground returns true if the given file should be fetched by
// a background task once its producing action has finished. Trees must be
// expanded to their member files before calling this.
func (c *OutputChecker) ShouldDownloadInBackground(file *core.Artifact) bool {
	// User-requested files aren't needed for build correctness, so they're fetched
	// in the background to let subsequent actions start sooner.
	if c.matchesDownloadPattern(file) {
		c.metrics.backgroundDownloads.Inc()
		return true
	}
	return false
}

// ShouldTrustMetadata returns true if an existing remote metadata record may be
// accepted for this artifact in place of re-running its producing action.
func (c *OutputChecker) ShouldTrustMetadata(artifact *core.Artifact, md *FileMetadata) bool {
	if c.isToplevel(artifact) || c.matchesDownloadPattern(artifact) {
		// This artifact has to end up on local disk but its bytes aren't there; the
		// only way to get them is to re-run the producing action, exactly as when a
		// local output goes missing. TTL doesn't enter into it.
		c.metrics.trustRejections.Inc()
		return false
	}
	return md.Alive(c.clock.Now())
}

func (c *OutputChecker) isToplevel(output *core.Artifact) bool {
	return contains(c.toplevel, output)
}

func (c *OutputChecker) isLocalInput(output *core.Artifact) bool {
	return contains(c.localInputs, output)
}

// contains looks up an artifact in one of the intent sets. Members of a tree
// artifact are looked up via their parent: download decisions are made at tree
// granularity before the tree's contents are known.
func contains(set *cset.Set[string], output *core.Artifact) bool {
	if parent := output.Parent(); parent != nil {
		return set.Contains(parent.ExecPath())
	}
	return set.Contains(output.ExecPath())
}

func (c *OutputChecker) matchesDownloadPattern(file *core.Artifact) bool {
	if file.IsTree() {
		panic(fmt.Sprintf("%s is a tree artifact; trees must be expanded to their members before pattern matching", file))
	}
	for i := range c.patterns {
		if c.patterns[i].MatchString(file.ExecPath()) {
			return true
		}
	}
	return false
}
