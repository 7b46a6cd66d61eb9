package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/Purgs-Association/Purgs/internal/purgs/ast"
	"github.com/Purgs-Association/Purgs/internal/purgs/compile"
	"github.com/Purgs-Association/Purgs/internal/purgs/config"
	"github.com/Purgs-Association/Purgs/internal/purgs/lexer"
)

const (
	historyFile = ".purgs_history"
	promptMain  = "purgs> "
	promptCont  = "...... "
)

type mode string

const (
	modeHTML   mode = "html"
	modeGo     mode = "go"
	modeTokens mode = "tokens"
	modeTree   mode = "tree"
)

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// session holds what the REPL shows for each snippet.
type session struct {
	mode mode
	opts compile.Options
}

func newSession() *session {
	return &session{mode: modeHTML, opts: compile.OptionsFrom(config.Default())}
}

// command handles a ":name" line. It reports false for :quit.
func (s *session) command(line string, out io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case ":quit", ":q":
		return false
	case ":tokens":
		s.mode = modeTokens
	case ":tree":
		s.mode = modeTree
	case ":html":
		s.mode = modeHTML
	case ":go":
		s.mode = modeGo
	default:
		_, _ = fmt.Fprintln(out, "unknown command. Try :tokens, :tree, :html, :go or :quit.")
		return true
	}
	_, _ = fmt.Fprintf(out, "showing %s\n", s.mode)
	return true
}

// eval renders src in the current mode.
func (s *session) eval(ctx context.Context, src string) (string, error) {
	const name = "<repl>"
	switch s.mode {
	case modeTokens:
		toks, err := lexer.Lex(src, lexer.Options{AllowMixedIndent: s.opts.AllowMixedIndent})
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, t := range toks {
			fmt.Fprintf(&b, "%-8s %s\n", t.Span, t)
		}
		return b.String(), nil
	case modeTree:
		doc, err := compile.Parse(ctx, name, []byte(src), s.opts)
		if err != nil {
			return "", err
		}
		return formatTree(doc), nil
	default:
		opts := s.opts
		opts.Emit = config.EmitHTML
		if s.mode == modeGo {
			opts.Emit = config.EmitGo
			opts.Package = "playground"
		}
		out, err := compile.CompileFile(ctx, "snippet.pug", []byte(src), opts)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(out), "\n") + "\n", nil
	}
}

// formatTree prints one element per line, indented by depth.
func formatTree(doc ast.Document) string {
	var b strings.Builder
	doc.Walk(func(el *ast.Element, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(el.Tag)
		if el.ID != "" {
			b.WriteString("#" + el.ID)
		}
		for _, c := range el.Classes {
			b.WriteString("." + c)
		}
		if len(el.Attrs) > 0 {
			attrs := make([]string, len(el.Attrs))
			for i, a := range el.Attrs {
				attrs[i] = a.Key
				if a.Kind == ast.AttrString {
					attrs[i] += "=" + strconv.Quote(a.Value)
				}
			}
			b.WriteString("(" + strings.Join(attrs, ", ") + ")")
		}
		if el.Content != nil {
			b.WriteString(" " + strconv.Quote(*el.Content))
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

func repl(ctx context.Context, historyPath string, out io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	_, _ = fmt.Fprintln(out, "purgs playground. End a snippet with an empty line; :quit to leave.")
	s := newSession()
	for ctx.Err() == nil {
		src, ok := readSnippet(ln)
		if !ok {
			_, _ = fmt.Fprintln(out)
			return nil
		}
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			if !s.command(src, out) {
				return nil
			}
			continue
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		res, err := s.eval(ctx, src)
		if err != nil {
			_, _ = fmt.Fprintln(out, err)
			continue
		}
		_, _ = io.WriteString(out, res)
		ln.AppendHistory(strings.ReplaceAll(src, "\n", `\n`))
	}
	return nil
}

// readSnippet collects lines until an empty one. A first line starting with
// ':' is returned on its own as a command.
func readSnippet(ln *liner.State) (string, bool) {
	var lines []string
	for {
		prompt := promptMain
		if len(lines) > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if len(lines) == 0 {
				return "", false
			}
			return strings.Join(lines, "\n"), true
		}
		if err != nil {
			return "", false
		}
		if len(lines) == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		if line == "" {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, line)
	}
}
