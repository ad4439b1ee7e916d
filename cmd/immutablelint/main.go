package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/mod/semver"
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/namdets/immutable-j/immutablecheck"
)

// These will be set by ldflags during build
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	versionColor = color.New(color.FgGreen, color.Bold)
	labelColor   = color.New(color.Faint)
)

func main() {
	// quick-and-dirty: if -V or -V=* or --version seen, print version and exit
	for _, a := range os.Args[1:] {
		if a == "-V" || strings.HasPrefix(a, "-V=") || a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	// --log and --config belong to us, not to singlechecker
	logDest, hasLog := takeFlag("--log=")
	configPath, hasConfig := takeFlag("--config=")

	settings, err := loadSettings(configPath, hasConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "immutablelint: %v\n", err)
		os.Exit(1)
	}
	if hasLog {
		settings.Log = logDest
	}
	if err := immutablecheck.Configure(settings); err != nil {
		fmt.Fprintf(os.Stderr, "immutablelint: %v\n", err)
		os.Exit(1)
	}

	singlechecker.Main(immutablecheck.Analyzer)
}

// takeFlag removes the first argument starting with prefix from os.Args and
// returns its value.
func takeFlag(prefix string) (string, bool) {
	for i, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, prefix) {
			os.Args = append(os.Args[:i+1], os.Args[i+2:]...)
			return strings.TrimPrefix(arg, prefix), true
		}
	}
	return "", false
}

// loadSettings reads the explicit settings file, or the nearest
// .immutablelint.toml above the working directory, or falls back to defaults.
func loadSettings(path string, explicit bool) (immutablecheck.Settings, error) {
	if !explicit {
		found, ok, err := immutablecheck.FindSettingsFile(".")
		if err != nil {
			return immutablecheck.Settings{}, err
		}
		if !ok {
			return immutablecheck.DefaultSettings(), nil
		}
		path = found
	}
	return immutablecheck.LoadSettings(path)
}

func printVersion() {
	fmt.Printf("immutablelint %s\n", versionColor.Sprint(getVersion()))
	if commit != "unknown" {
		fmt.Printf("  %s %s\n", labelColor.Sprint("commit:"), commit)
	}
	if buildDate != "unknown" {
		fmt.Printf("  %s  %s\n", labelColor.Sprint("built:"), buildDate)
	}
}

func getVersion() string {
	// If version was set via ldflags (local build with make)
	if version != "dev" {
		return version
	}

	// Try to get version from Go module info (go install)
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; semver.IsValid(v) {
			return semver.Canonical(v)
		}
	}

	return "dev"
}
