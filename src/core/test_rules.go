package core

import "strings"

// IsTestRuleName returns true if the given rule class name identifies a test rule,
// eg. "go_test" or "sh_test". This is the single source of truth for test-rule
// classification; anything needing to know must call this rather than matching
// names itself.
func IsTestRuleName(ruleClass string) bool {
	return strings.HasSuffix(ruleClass, "_test")
}
