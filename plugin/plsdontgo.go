package main

import (
	"github.com/namdets/immutable-j/immutablecheck"
	"golang.org/x/tools/go/analysis"
)

// New is the factory function required by golangci-lint plugin interface.
// conf is decoded into immutablecheck.Settings; unknown keys are rejected.
func New(conf any) ([]*analysis.Analyzer, error) {
	return immutablecheck.New(conf)
}
