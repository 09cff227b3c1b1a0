// Package lang is the per-language syntax table shared by the import
// detector and the metadata comment detector. File extensions map to
// comment styles and to an import grammar; unknown extensions get a
// generic comment guess but no import grammar.
package lang

import "strings"

// Grammar identifies which import syntax a file uses.
type Grammar int

const (
	// GrammarRust matches use crate::/self::/super:: statements.
	GrammarRust Grammar = iota
	// GrammarJavaScript matches import/require/export-from.
	GrammarJavaScript
	// GrammarPython matches relative from/import statements only.
	GrammarPython
	// GrammarGo matches quoted import statements.
	GrammarGo
	// GrammarJavaLike matches import and using statements.
	GrammarJavaLike
	// GrammarC matches #include statements.
	GrammarC
	// GrammarRuby matches require and require_relative.
	GrammarRuby
	// GrammarPHP matches require*/include* statements.
	GrammarPHP
	// GrammarShell matches source and dot-space statements.
	GrammarShell
	// GrammarCSS matches @import statements.
	GrammarCSS
)

// GrammarFor returns the import grammar for a file extension. The
// second result is false for extensions without import support; those
// files are skipped entirely by the import detector.
func GrammarFor(extension string) (Grammar, bool) {
	switch extension {
	case "rs":
		return GrammarRust, true
	case "js", "jsx", "ts", "tsx", "mjs", "cjs":
		return GrammarJavaScript, true
	case "py":
		return GrammarPython, true
	case "go":
		return GrammarGo, true
	case "java", "kt", "scala", "cs":
		return GrammarJavaLike, true
	case "c", "cpp", "cc", "cxx", "h", "hpp":
		return GrammarC, true
	case "rb":
		return GrammarRuby, true
	case "php":
		return GrammarPHP, true
	case "sh", "bash":
		return GrammarShell, true
	case "css", "scss", "less":
		return GrammarCSS, true
	}
	return 0, false
}

// CommentPattern describes one comment syntax. Either Prefix is set
// (line comment) or Start/End are (block comment).
type CommentPattern struct {
	Prefix string
	Start  string
	End    string
}

func line(prefix string) CommentPattern {
	return CommentPattern{Prefix: prefix}
}

func block(start, end string) CommentPattern {
	return CommentPattern{Start: start, End: end}
}

// CommentPatterns returns the comment syntaxes to try for a file
// extension, most common first. Unknown extensions fall back to a
// generic guess set so annotation scanning still works.
func CommentPatterns(extension string) []CommentPattern {
	switch extension {
	case "rs", "c", "cpp", "cc", "cxx", "h", "hpp", "java", "js", "jsx", "ts", "tsx",
		"go", "cs", "swift", "kt", "scala":
		return []CommentPattern{line("//"), block("/*", "*/")}
	case "py", "sh", "bash", "rb", "pl", "yml", "yaml", "toml":
		return []CommentPattern{line("#")}
	case "html", "xml", "svg":
		return []CommentPattern{block("<!--", "-->")}
	case "css", "scss", "less":
		return []CommentPattern{line("//"), block("/*", "*/")}
	case "lua":
		return []CommentPattern{line("--"), block("--[[", "]]")}
	case "sql":
		return []CommentPattern{line("--"), block("/*", "*/")}
	}
	return []CommentPattern{line("//"), line("#"), block("/*", "*/")}
}

// ExtractComment returns the comment body of a line, if the line is a
// comment under any of the given patterns.
func ExtractComment(lineText string, patterns []CommentPattern) (string, bool) {
	trimmed := strings.TrimSpace(lineText)

	for _, p := range patterns {
		if p.Prefix != "" {
			if content, ok := strings.CutPrefix(trimmed, p.Prefix); ok {
				return strings.TrimSpace(content), true
			}
			continue
		}
		if content, ok := strings.CutPrefix(trimmed, p.Start); ok {
			content = strings.TrimSuffix(content, p.End)
			return strings.TrimSpace(content), true
		}
	}

	return "", false
}

// ExtractQuoted returns the first quoted string in s, accepting
// single, double, and backtick quotes.
func ExtractQuoted(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}

	quote := trimmed[0]
	if quote != '"' && quote != '\'' && quote != '`' {
		return "", false
	}

	end := strings.IndexByte(trimmed[1:], quote)
	if end < 0 {
		return "", false
	}
	return trimmed[1 : 1+end], true
}
