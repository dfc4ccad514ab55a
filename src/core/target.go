package core

import (
	"fmt"
)

// A BuildLabel is the identifier of a build target, eg. //spam/eggs:ham
// corresponds to BuildLabel{PackageName: "spam/eggs", Name: "ham"}.
type BuildLabel struct {
	PackageName string
	Name        string
}

func (label BuildLabel) String() string {
	return fmt.Sprintf("//%s:%s", label.PackageName, label.Name)
}

// A TopLevelArtifactContext determines which of a target's outputs count as its
// "important" artifacts for the current invocation. It may not be knowable until
// top-level scheduling has settled, hence callers often receive it via a supplier
// rather than a value.
type TopLevelArtifactContext struct {
	// OutputGroups are additional output groups requested on top of the default one.
	OutputGroups []string
}

// A ConfiguredTarget is a build target after analysis has run over it.
// Two kinds exist: rule-backed targets (RuleTarget) and everything else
// (OtherTarget, eg. input-file or alias targets); callers that care about rule
// classification type-switch on the concrete type.
type ConfiguredTarget interface {
	// Label returns the target's build label.
	Label() BuildLabel
	// ImportantArtifacts returns the outputs of this target that the invocation
	// cares about under the given context.
	ImportantArtifacts(ctx *TopLevelArtifactContext) []*Artifact
	// FilesToRun returns this target's files-to-run provider, or nil if it has none.
	FilesToRun() *FilesToRunProvider
}

// A RuleTarget is a configured target backed by a build rule.
type RuleTarget struct {
	label BuildLabel
	// RuleClass is the name of the rule that produced this target, eg. "go_library".
	RuleClass  string
	outputs    map[string][]*Artifact
	filesToRun *FilesToRunProvider
}

// NewRuleTarget creates a new rule-backed target with the given default outputs.
func NewRuleTarget(label BuildLabel, ruleClass string, outputs ...*Artifact) *RuleTarget {
	return &RuleTarget{
		label:     label,
		RuleClass: ruleClass,
		outputs:   map[string][]*Artifact{"": outputs},
	}
}

// AddOutputGroup adds outputs under a named output group.
func (t *RuleTarget) AddOutputGroup(group string, outputs ...*Artifact) {
	t.outputs[group] = append(t.outputs[group], outputs...)
}

// SetFilesToRun attaches a files-to-run provider to this target.
func (t *RuleTarget) SetFilesToRun(provider *FilesToRunProvider) {
	t.filesToRun = provider
}

// Label implements ConfiguredTarget.
func (t *RuleTarget) Label() BuildLabel { return t.label }

// ImportantArtifacts implements ConfiguredTarget.
// The default output group is always included; any groups named by the context
// are added on top.
func (t *RuleTarget) ImportantArtifacts(ctx *TopLevelArtifactContext) []*Artifact {
	artifacts := t.outputs[""]
	if ctx != nil {
		for _, group := range ctx.OutputGroups {
			artifacts = append(artifacts, t.outputs[group]...)
		}
	}
	return artifacts
}

// FilesToRun implements ConfiguredTarget.
func (t *RuleTarget) FilesToRun() *FilesToRunProvider { return t.filesToRun }

// An OtherTarget is a configured target that is not backed by a build rule,
// eg. a plain input file or an alias. It cannot be classified by rule name.
type OtherTarget struct {
	label   BuildLabel
	outputs []*Artifact
}

// NewOtherTarget creates a new non-rule-backed target.
func NewOtherTarget(label BuildLabel, outputs ...*Artifact) *OtherTarget {
	return &OtherTarget{label: label, outputs: outputs}
}

// Label implements ConfiguredTarget.
func (t *OtherTarget) Label() BuildLabel { return t.label }

// ImportantArtifacts implements ConfiguredTarget.
func (t *OtherTarget) ImportantArtifacts(ctx *TopLevelArtifactContext) []*Artifact {
	return t.outputs
}

// FilesToRun implements ConfiguredTarget.
func (t *OtherTarget) FilesToRun() *FilesToRunProvider { return nil }

// A FilesToRunProvider describes what a runnable target needs at run time.
// Targets that are not runnable simply don't carry one.
type FilesToRunProvider struct {
	// Executable is the main output to run, if there is one.
	Executable *Artifact
	runfiles   *RunfilesSupport
}

// NewFilesToRunProvider creates a provider with the given runfiles support,
// which may be nil for targets that have an executable but no runfiles.
func NewFilesToRunProvider(executable *Artifact, runfiles *RunfilesSupport) *FilesToRunProvider {
	return &FilesToRunProvider{Executable: executable, runfiles: runfiles}
}

// RunfilesSupport returns the runfiles support, or nil if the target has none.
func (p *FilesToRunProvider) RunfilesSupport() *RunfilesSupport { return p.runfiles }

// RunfilesSupport holds the transitive set of data files a runnable target needs
// alongside its main output.
type RunfilesSupport struct {
	artifacts []*Artifact
}

// NewRunfilesSupport creates runfiles support over the given artifacts.
func NewRunfilesSupport(artifacts ...*Artifact) *RunfilesSupport {
	return &RunfilesSupport{artifacts: artifacts}
}

// Artifacts returns all artifacts in the runfiles tree, sources included.
func (s *RunfilesSupport) Artifacts() []*Artifact { return s.artifacts }

// An AnalysisResult is the outcome of the analysis phase for a whole invocation:
// the configured targets that were requested, and for test invocations the subset
// that will actually be tested.
type AnalysisResult struct {
	// TargetsToBuild are all requested top-level targets.
	TargetsToBuild []ConfiguredTarget
	// TargetsToTest are the requested test targets; nil unless this is a test invocation.
	TargetsToTest []ConfiguredTarget

	context *TopLevelArtifactContext
}

// NewAnalysisResult creates an analysis result with the given top-level context.
func NewAnalysisResult(context *TopLevelArtifactContext) *AnalysisResult {
	return &AnalysisResult{context: context}
}

// TopLevelContext returns the context under which top-level artifacts are enumerated.
func (r *AnalysisResult) TopLevelContext() *TopLevelArtifactContext {
	return r.context
}
