package main

import (
	"github.com/namdets/immutable-j/immutablecheck"
	"golang.org/x/tools/go/analysis"
)

// AnalyzerPlugin is the entry point for golangci-lint plugin system
type analyzerPlugin struct{}

func (analyzerPlugin) GetAnalyzers() []*analysis.Analyzer {
	return []*analysis.Analyzer{immutablecheck.Analyzer}
}

// This variable must be named "AnalyzerPlugin" and be exported for golangci-lint
var AnalyzerPlugin analyzerPlugin

// main is never run; it lets the package build outside -buildmode=plugin.
func main() {}
