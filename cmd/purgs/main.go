package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Purgs-Association/Purgs/internal/purgs/compile"
	"github.com/Purgs-Association/Purgs/internal/purgs/config"
	"github.com/Purgs-Association/Purgs/internal/purgs/ctxlog"
	"github.com/Purgs-Association/Purgs/internal/purgs/outfile"
)

// exitError carries the process exit code for usage errors.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

type options struct {
	root       string
	dir        string
	configPath string
	stdout     bool
	patterns   []string
	// cfg is the defaults with flags applied, before any project file.
	cfg        config.Config
	applyFlags func(*config.Config)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fset := flag.NewFlagSet("purgs", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: purgs [flags] [paths...]")
		_, _ = fmt.Fprintln(stderr, "")
		_, _ = fmt.Fprintln(stderr, "Compiles each *.pug source to *.html (or *.pug.go with -emit go) next to it.")
		_, _ = fmt.Fprintln(stderr, "")
		_, _ = fmt.Fprintln(stderr, "Paths behave like Go patterns:")
		_, _ = fmt.Fprintln(stderr, "  - ./...        recurse from cwd")
		_, _ = fmt.Fprintln(stderr, "  - ./dir        only that directory (non-recursive)")
		_, _ = fmt.Fprintln(stderr, "  - ./dir/...    recurse from that directory")
		_, _ = fmt.Fprintln(stderr, "  - ./file.pug   only that file")
		fset.PrintDefaults()
	}

	def := config.Default()
	opts := &options{}
	fset.StringVar(&opts.root, "root", "", "module root (defaults to auto-detected go.mod parent from cwd)")
	fset.StringVar(&opts.dir, "dir", "", "if set, only compile this directory (non-recursive). Useful with go:generate.")
	fset.StringVar(&opts.configPath, "config", "", "project file (defaults to "+config.FileName+" at the module root, if present)")
	fset.BoolVar(&opts.stdout, "stdout", false, "print output to stdout instead of writing files")
	emit := fset.String("emit", def.Emit, "output kind: 'html' or 'go'")
	ext := fset.String("ext", def.Extension, "source file extension")
	pkg := fset.String("package", def.Package, "package name for -emit go (defaults to the source directory name)")
	logLevel := fset.String("log-level", def.LogLevel, "logging level: 'debug', 'info', 'warn', or 'error'")
	logFormat := fset.String("log-format", def.LogFormat, "log output format: 'text' or 'json'")

	if err := fset.Parse(args); err != nil {
		return nil, &exitError{code: 2, err: err}
	}
	if strings.TrimSpace(opts.dir) != "" && fset.NArg() != 0 {
		return nil, &exitError{code: 2, err: errors.New("purgs: cannot use -dir with positional paths")}
	}
	opts.patterns = fset.Args()

	// Flags given explicitly win over the project file; apply them later.
	set := map[string]bool{}
	fset.Visit(func(f *flag.Flag) { set[f.Name] = true })
	opts.cfg = def
	override := func(cfg *config.Config) {
		if set["emit"] {
			cfg.Emit = *emit
		}
		if set["ext"] {
			cfg.Extension = *ext
		}
		if set["package"] {
			cfg.Package = *pkg
		}
		if set["log-level"] {
			cfg.LogLevel = strings.ToLower(*logLevel)
		}
		if set["log-format"] {
			cfg.LogFormat = strings.ToLower(*logFormat)
		}
	}
	override(&opts.cfg)
	opts.applyFlags = override
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	ctx = ctxlog.WithLogger(ctx, ctxlog.New(stderr, opts.cfg.LogLevel, opts.cfg.LogFormat))

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	root := opts.root
	if root == "" {
		root, err = findModuleRoot(cwd)
		if err != nil {
			return err
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, root, opts)
	if err != nil {
		return err
	}
	ctx = ctxlog.WithLogger(ctx, ctxlog.New(stderr, cfg.LogLevel, cfg.LogFormat))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuration resolved.", "root", root, "emit", cfg.Emit, "ext", cfg.Extension)

	var paths []string
	if strings.TrimSpace(opts.dir) != "" {
		dir := opts.dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cwd, dir)
		}
		paths, err = collectPaths(cwd, []string{dir}, cfg.Extension)
	} else {
		patterns := opts.patterns
		if len(patterns) == 0 {
			patterns = []string{"./..."}
		}
		paths, err = collectPaths(cwd, patterns, cfg.Extension)
	}
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Info("No sources found.", "ext", cfg.Extension)
		return nil
	}

	sort.Strings(paths)
	copts := compile.OptionsFrom(cfg)
	var allErr error
	written := 0
	for _, pth := range paths {
		changed, err := generateFile(ctx, pth, copts, opts.stdout, stdout)
		if err != nil {
			allErr = errors.Join(allErr, err)
			continue
		}
		if changed {
			written++
		}
	}
	logger.Info("Compiled sources.", "files", len(paths), "written", written)
	return allErr
}

// loadConfig reads the project file, if any, and lays explicit flags over it.
func loadConfig(ctx context.Context, root string, opts *options) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.Find(root)
	}
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(ctx, path)
		if err != nil {
			return config.Config{}, err
		}
	}
	opts.applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, &exitError{code: 2, err: err}
	}
	return cfg, nil
}

func generateFile(ctx context.Context, pth string, opts compile.Options, toStdout bool, stdout io.Writer) (bool, error) {
	b, err := os.ReadFile(pth)
	if err != nil {
		return false, err
	}
	src, err := compile.CompileFile(ctx, pth, b, opts)
	if err != nil {
		return false, err
	}
	if toStdout {
		if _, err := stdout.Write(src); err != nil {
			return false, err
		}
		_, err = fmt.Fprintln(stdout)
		return false, err
	}

	outPath := outfile.Path(pth, opts.Emit == config.EmitGo)
	changed, err := outfile.WriteGeneratedFile(outPath, src)
	if err != nil {
		return false, err
	}
	if changed {
		ctxlog.FromContext(ctx).Debug("Wrote output.", "path", outPath)
	}
	return changed, nil
}

func findModuleRoot(start string) (string, error) {
	d := start
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("could not find go.mod above %s", start)
		}
		d = parent
	}
}

func collectPaths(cwd string, patterns []string, ext string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	add := func(p string) error {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, abs)
		}
		abs, err := filepath.Abs(abs)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
		return nil
	}

	for _, raw := range patterns {
		pat := strings.TrimSpace(raw)
		if pat == "" {
			continue
		}

		// Recursive pattern: <dir>/...
		if strings.HasSuffix(pat, "/...") || pat == "..." {
			base := strings.TrimSuffix(pat, "...")
			base = strings.TrimSuffix(base, "/")
			if base == "" {
				base = "."
			}
			dir := base
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(cwd, dir)
			}
			if err := walkSources(dir, ext, add); err != nil {
				return nil, err
			}
			continue
		}

		// Non-recursive: a source file or a directory.
		target := pat
		if !filepath.IsAbs(target) {
			target = filepath.Join(cwd, target)
		}
		st, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			entries, err := os.ReadDir(target)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
					if err := add(filepath.Join(target, e.Name())); err != nil {
						return nil, err
					}
				}
			}
			continue
		}
		if !strings.HasSuffix(target, ext) {
			return nil, fmt.Errorf("purgs: not a %s file: %s", ext, target)
		}
		if err := add(target); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func walkSources(root, ext string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			name := de.Name()
			if path != root && (name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(de.Name(), ext) {
			return add(path)
		}
		return nil
	})
}
