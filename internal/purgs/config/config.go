// Package config loads the optional purgs.hcl project file.
//
// Example:
//
//	emit      = "go"
//	package   = "views"
//	max_depth = 64
//	log_level = env.PURGS_LOG_LEVEL
//
// Every attribute is optional. Expressions may read environment variables
// through the env object.
package config

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/Purgs-Association/Purgs/internal/purgs/ctxlog"
	"github.com/Purgs-Association/Purgs/internal/purgs/parser"
)

// FileName is the project file looked up at the module root.
const FileName = "purgs.hcl"

const (
	EmitHTML = "html"
	EmitGo   = "go"
)

// Config holds project settings. Zero-valued fields are filled from
// Default before decoding, so a missing attribute keeps its default.
type Config struct {
	Emit             string `hcl:"emit,optional"`
	Extension        string `hcl:"extension,optional"`
	Package          string `hcl:"package,optional"`
	MaxDepth         int    `hcl:"max_depth,optional"`
	AllowMixedIndent bool   `hcl:"allow_mixed_indent,optional"`
	LogLevel         string `hcl:"log_level,optional"`
	LogFormat        string `hcl:"log_format,optional"`
}

// Default returns the settings used when no project file exists.
func Default() Config {
	return Config{
		Emit:      EmitHTML,
		Extension: ".pug",
		MaxDepth:  parser.DefaultMaxDepth,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Find returns the path of the project file under root, or "" when there
// is none.
func Find(root string) string {
	p := filepath.Join(root, FileName)
	if st, err := os.Stat(p); err == nil && !st.IsDir() {
		return p
	}
	return ""
}

// Load reads and decodes the file at path with the process environment.
func Load(ctx context.Context, path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(path, src, environ())
	if err != nil {
		return Config{}, err
	}
	ctxlog.FromContext(ctx).Debug("Loaded project config.", "path", path, "emit", cfg.Emit, "max_depth", cfg.MaxDepth)
	return cfg, nil
}

// Parse decodes src, exposing env to expressions as the env object.
func Parse(filename string, src []byte, env map[string]string) (Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	cfg := Default()
	if diags := gohcl.DecodeBody(file.Body, evalContext(env), &cfg); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks that every field holds a supported value.
func (c Config) Validate() error {
	var errs []error
	switch c.Emit {
	case EmitHTML, EmitGo:
	default:
		errs = append(errs, fmt.Errorf("invalid emit %q: must be %q or %q", c.Emit, EmitHTML, EmitGo))
	}
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		errs = append(errs, fmt.Errorf("invalid extension %q: must start with '.'", c.Extension))
	}
	if c.Package != "" && !token.IsIdentifier(c.Package) {
		errs = append(errs, fmt.Errorf("invalid package %q: not a Go identifier", c.Package))
	}
	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("invalid max_depth %d: must be at least 1", c.MaxDepth))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log_level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", c.LogFormat))
	}
	return errors.Join(errs...)
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		if hclName(k) {
			vars[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

// hclName reports whether k can be written as env.<k> in an expression.
func hclName(k string) bool {
	if k == "" {
		return false
	}
	for i, r := range k {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func environ() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
