package gcplugin

import (
	"github.com/namdets/immutable-j/immutablecheck"
	"golang.org/x/tools/go/analysis"
)

// New is the factory function required by golangci-lint module plugin interface.
// This must be in an importable (non-main) package for golangci-lint v2 to load it.
// conf carries the linter settings (format, max-depth, jobs, log).
func New(conf any) ([]*analysis.Analyzer, error) {
	return immutablecheck.New(conf)
}
