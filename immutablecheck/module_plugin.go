package immutablecheck

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"
)

// pluginModule implements the module plugin interface for golangci-lint v2
type pluginModule struct {
	settings Settings
}

// decodeSettings turns golangci-lint's raw settings into Settings. Missing
// settings mean defaults.
func decodeSettings(raw any) (Settings, error) {
	if raw == nil {
		return DefaultSettings(), nil
	}
	s, err := register.DecodeSettings[Settings](raw)
	if err != nil {
		return Settings{}, err
	}
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// PluginNew is registered with golangci-lint module plugin system.
// It returns a linter plugin instance that exposes our analyzers.
func PluginNew(settings any) (register.LinterPlugin, error) {
	s, err := decodeSettings(settings)
	if err != nil {
		return nil, err
	}
	if s.Log != "" {
		SetLogDestination(s.Log)
	}
	return &pluginModule{settings: s}, nil
}

// BuildAnalyzers returns the list of analyzers provided by this plugin.
func (p *pluginModule) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	a, err := NewAnalyzer(p.settings)
	if err != nil {
		return nil, err
	}
	return []*analysis.Analyzer{a}, nil
}

// GetLoadMode specifies which loading mode is required by this plugin.
// Our analyzer uses types information, hence LoadModeTypesInfo.
func (p *pluginModule) GetLoadMode() string {
	return register.LoadModeTypesInfo
}

// Register the plugin at init time under the name "immutablecheck".
func init() {
	register.Plugin("immutablecheck", PluginNew)
}
