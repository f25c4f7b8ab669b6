// Package config resolves per-project tscheck settings. Sources merge in
// documented precedence: defaults < .tscheckrc file < "tscheck" block in
// package.json < TSCHECK_* environment variables < CLI flags (applied by the
// command layer). Malformed configuration never aborts a check: the bad
// source is demoted to defaults and logged at debug.
package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/tscheck/internal/schema"
)

// Config is the resolved tscheck configuration for one project.
type Config struct {
	EnableFormat    bool     `mapstructure:"enable_format"`
	EnableLint      bool     `mapstructure:"enable_lint"`
	EnableTypes     bool     `mapstructure:"enable_types"`
	EnableStubCheck bool     `mapstructure:"enable_stub_check"`
	ExcludePatterns []string `mapstructure:"exclude_patterns"`

	FailOnWarning  bool `mapstructure:"fail_on_warning"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	Concurrency    bool `mapstructure:"concurrency"`

	Format  string `mapstructure:"format"`
	Output  string `mapstructure:"output"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	Watch WatchConfig `mapstructure:"watch"`
}

// WatchConfig configures the file-watch trigger collaborator.
type WatchConfig struct {
	FilePatterns []string `mapstructure:"file_patterns"`
	ReportLevel  string   `mapstructure:"report_level"`
	DebounceMs   int      `mapstructure:"debounce_ms"`
}

// DefaultExcludePatterns are the build/dependency directories skipped by
// every check unless the project overrides them.
var DefaultExcludePatterns = []string{
	"node_modules/**",
	"dist/**",
	"build/**",
	"coverage/**",
	".next/**",
	".git/**",
}

// DefaultWatchPatterns cover all recognized TS/JS extensions.
var DefaultWatchPatterns = []string{
	"*.ts", "*.tsx", "*.mts", "*.cts",
	"*.js", "*.jsx", "*.mjs", "*.cjs",
}

// configFileNames are the recognized rc files, tried in order at the root.
var configFileNames = []string{".tscheckrc.json", ".tscheckrc.yaml", ".tscheckrc.yml"}

// packageJSONKey is the settings block tscheck reads from package.json.
const packageJSONKey = "tscheck"

// Load resolves the configuration for the project at root. It never fails:
// a missing, unreadable, or schema-violating source falls back to defaults
// for that source, so checking proceeds regardless of config state.
func Load(root string) *Config {
	v := viper.New()
	setDefaults(v)

	validator := schema.NewValidator()

	if fileCfg, path := readConfigFile(root); fileCfg != nil {
		if err := validator.ValidateConfig(fileCfg); err != nil {
			slog.Debug("config file rejected, using defaults", "path", path, "err", err)
		} else if err := v.MergeConfigMap(fileCfg); err != nil {
			slog.Debug("config file merge failed", "path", path, "err", err)
		}
	}

	if pkgCfg := readPackageJSONBlock(root); pkgCfg != nil {
		if err := validator.ValidateConfig(pkgCfg); err != nil {
			slog.Debug("package.json tscheck block rejected, using defaults", "err", err)
		} else if err := v.MergeConfigMap(pkgCfg); err != nil {
			slog.Debug("package.json tscheck block merge failed", "err", err)
		}
	}

	v.SetEnvPrefix("TSCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Debug("config unmarshal failed, using defaults", "err", err)
		return Default()
	}
	return &cfg
}

// Default returns the documented default configuration: every check
// enabled, standard exclusions, 120s per-tool timeout.
func Default() *Config {
	return &Config{
		EnableFormat:    true,
		EnableLint:      true,
		EnableTypes:     true,
		EnableStubCheck: true,
		ExcludePatterns: append([]string(nil), DefaultExcludePatterns...),
		TimeoutSeconds:  120,
		Concurrency:     true,
		Format:          "console",
		Watch: WatchConfig{
			FilePatterns: append([]string(nil), DefaultWatchPatterns...),
			ReportLevel:  "warning",
			DebounceMs:   300,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("enable_format", true)
	v.SetDefault("enable_lint", true)
	v.SetDefault("enable_types", true)
	v.SetDefault("enable_stub_check", true)
	v.SetDefault("exclude_patterns", DefaultExcludePatterns)
	v.SetDefault("fail_on_warning", false)
	v.SetDefault("timeout_seconds", 120)
	v.SetDefault("concurrency", true)
	v.SetDefault("format", "console")
	v.SetDefault("output", "")
	v.SetDefault("quiet", false)
	v.SetDefault("verbose", false)
	v.SetDefault("watch.file_patterns", DefaultWatchPatterns)
	v.SetDefault("watch.report_level", "warning")
	v.SetDefault("watch.debounce_ms", 300)
}

// readConfigFile decodes the first recognized rc file at root. Decode
// failures return nil: malformed config is a silent fallback, not an error.
func readConfigFile(root string) (map[string]any, string) {
	for _, name := range configFileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var cfg map[string]any
		if strings.HasSuffix(name, ".json") {
			err = json.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			slog.Debug("config file unreadable, using defaults", "path", path, "err", err)
			return nil, path
		}
		return cfg, path
	}
	return nil, ""
}

// readPackageJSONBlock extracts the "tscheck" object from the project's
// package.json, if both exist. Malformed JSON falls back silently.
func readPackageJSONBlock(root string) map[string]any {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil
	}

	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		slog.Debug("package.json unreadable, skipping tscheck block", "err", err)
		return nil
	}

	block, ok := pkg[packageJSONKey].(map[string]any)
	if !ok {
		return nil
	}
	return block
}

// Enabled reports whether the named check (format, lint, types, stubs) is
// enabled by this configuration. Unknown names are disabled.
func (c *Config) Enabled(check string) bool {
	switch check {
	case "format":
		return c.EnableFormat
	case "lint":
		return c.EnableLint
	case "types":
		return c.EnableTypes
	case "stubs":
		return c.EnableStubCheck
	default:
		return false
	}
}

// EnabledChecks returns the enabled check names in the fixed presentation
// order: format, lint, types, stubs.
func (c *Config) EnabledChecks() []string {
	var out []string
	for _, check := range []string{"format", "lint", "types", "stubs"} {
		if c.Enabled(check) {
			out = append(out, check)
		}
	}
	return out
}
