// Command staticlint runs the analyzers enforced on the exercise tracker:
// a selection of go vet passes, ineffassign, nilerr, the project's noexit
// check and the staticcheck analyzers listed in the config file.
//
// The config file is staticlint.json next to the binary, or the path in
// STATICLINT_CONFIG. Without a file the default staticcheck set is used.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/patric-chuzhbe/exercisetracker/cmd/staticlint/noexit"
)

const configFileName = `staticlint.json`

// ConfigData lists the staticcheck analyzers to enable. Entries ending in
// "*" enable every analyzer with that prefix, e.g. "SA4*".
type ConfigData struct {
	Staticcheck []string `json:"staticcheck"`
}

var defaultConfig = ConfigData{
	Staticcheck: []string{"SA1*", "SA4*", "SA5*"},
}

func configPath() (string, error) {
	if path := os.Getenv("STATICLINT_CONFIG"); path != "" {
		return path, nil
	}

	appfile, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(appfile), configFileName), nil
}

func loadConfig() (ConfigData, error) {
	path, err := configPath()
	if err != nil {
		return ConfigData{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig, nil
	}
	if err != nil {
		return ConfigData{}, err
	}

	var cfg ConfigData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ConfigData{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

func enabled(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasPrefix(name, prefix) {
			return true
		}
		if pattern == name {
			return true
		}
	}

	return false
}

func analyzers(cfg ConfigData) []*analysis.Analyzer {
	checks := []*analysis.Analyzer{
		copylock.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		noexit.Analyzer,
	}

	for _, v := range staticcheck.Analyzers {
		if enabled(cfg.Staticcheck, v.Analyzer.Name) {
			checks = append(checks, v.Analyzer)
		}
	}

	return checks
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "staticlint:", err)
		cfg = defaultConfig
	}

	multichecker.Main(analyzers(cfg)...)
}
