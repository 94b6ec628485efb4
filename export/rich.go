// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: export/rich.go
// Summary: Syntax-highlighted clipboard payloads ("copy with styles").

package export

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	htmlformatter "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"

	"github.com/framegrace/texelsel/selection"
)

const defaultStyleName = "catppuccin-mocha"

// RichOptions configures the highlighted export formats.
type RichOptions struct {
	// Lexer names the chroma lexer to use. When empty the language is
	// guessed from the selected text.
	Lexer string
	// Style names the chroma style; empty picks the default.
	Style string
}

// HTML renders the selection as a syntax-highlighted HTML fragment with
// inline styles, suitable for rich clipboard targets.
func HTML(sel *selection.Selector, opts RichOptions) (string, error) {
	formatter := htmlformatter.New(
		htmlformatter.WithClasses(false),
		htmlformatter.PreventSurroundingPre(false),
	)
	return highlight(sel, opts, formatter)
}

// ANSI renders the selection with 24-bit terminal escape sequences, for
// pasting into targets that understand them.
func ANSI(sel *selection.Selector, opts RichOptions) (string, error) {
	return highlight(sel, opts, formatters.TTY16m)
}

func highlight(sel *selection.Selector, opts RichOptions, formatter chroma.Formatter) (string, error) {
	text := Text(sel)
	if text == "" {
		return "", nil
	}

	lexer := resolveLexer(opts.Lexer, text)
	style := chromaStyle(opts.Style)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("export: tokenize selection: %w", err)
	}

	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return "", fmt.Errorf("export: format selection: %w", err)
	}
	return b.String(), nil
}

// chromaStyle resolves a style name to a Chroma style, falling back to the
// default.
func chromaStyle(name string) *chroma.Style {
	if name == "" {
		name = defaultStyleName
	}
	return styles.Get(name)
}

// resolveLexer picks a lexer: explicit name, then enry's content
// classifier, then chroma's own analysis, then the fallback.
func resolveLexer(name, text string) chroma.Lexer {
	if name != "" {
		if l := lexers.Get(name); l != nil {
			return chroma.Coalesce(l)
		}
	}
	if lang, safe := enry.GetLanguageByClassifier([]byte(text), nil); safe {
		if l := lexers.Get(strings.ToLower(lang)); l != nil {
			return chroma.Coalesce(l)
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return chroma.Coalesce(l)
	}
	return chroma.Coalesce(lexers.Fallback)
}
