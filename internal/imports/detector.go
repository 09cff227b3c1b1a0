// Package imports finds import statements in source files and resolves
// them to files inside the scan root. Detection is lexical: each line
// is matched against the extension's grammar, and only unambiguous
// path-like imports are kept. Bare package names are external
// dependencies and never produce statements.
package imports

import (
	"os"
	"path/filepath"
	"strings"

	"featmap/internal/lang"
)

// Statement is one raw import found in a source file.
type Statement struct {
	FilePath     string
	LineNumber   int // 1-based
	LineContent  string
	ImportedPath string
}

// ScanFile reads a file and returns every import statement it can
// recognize. Unsupported extensions and unreadable files yield an
// empty list, never an error; a file we cannot read contributes
// nothing to the dependency graph.
func ScanFile(filePath string) []Statement {
	extension := strings.TrimPrefix(filepath.Ext(filePath), ".")
	grammar, ok := lang.GrammarFor(extension)
	if !ok {
		return nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}

	var statements []Statement
	for i, line := range strings.Split(string(content), "\n") {
		imported, ok := extractImport(line, grammar)
		if !ok {
			continue
		}
		statements = append(statements, Statement{
			FilePath:     filePath,
			LineNumber:   i + 1,
			LineContent:  strings.TrimSpace(line),
			ImportedPath: imported,
		})
	}

	return statements
}

func extractImport(line string, grammar lang.Grammar) (string, bool) {
	switch grammar {
	case lang.GrammarRust:
		return extractRustImport(line)
	case lang.GrammarJavaScript:
		return extractJavaScriptImport(line)
	case lang.GrammarPython:
		return extractPythonImport(line)
	case lang.GrammarGo:
		return extractGoImport(line)
	case lang.GrammarJavaLike:
		return extractJavaLikeImport(line)
	case lang.GrammarC:
		return extractCInclude(line)
	case lang.GrammarRuby:
		return extractRubyRequire(line)
	case lang.GrammarPHP:
		return extractPHPInclude(line)
	case lang.GrammarShell:
		return extractShellSource(line)
	case lang.GrammarCSS:
		return extractCSSImport(line)
	}
	return "", false
}

// extractRustImport handles use statements rooted at crate, super, or
// self. Brace groups and as-aliases are stripped down to the module
// path.
func extractRustImport(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	importPart, ok := strings.CutPrefix(trimmed, "use ")
	if !ok {
		return "", false
	}
	importPart = strings.TrimSpace(strings.TrimSuffix(importPart, ";"))

	if !strings.HasPrefix(importPart, "crate::") &&
		!strings.HasPrefix(importPart, "super::") &&
		!strings.HasPrefix(importPart, "self::") {
		return "", false
	}

	if brace := strings.Index(importPart, "{"); brace >= 0 {
		return strings.TrimSpace(importPart[:brace]), true
	}
	if asPos := strings.Index(importPart, " as "); asPos >= 0 {
		return strings.TrimSpace(importPart[:asPos]), true
	}
	return importPart, true
}

func extractJavaScriptImport(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	// import ... from "path", or a side-effect import "path"
	if strings.HasPrefix(trimmed, "import ") {
		if fromPos := strings.Index(trimmed, " from "); fromPos >= 0 {
			return lang.ExtractQuoted(trimmed[fromPos+6:])
		}
		if quotePos := strings.IndexAny(trimmed, `"'`); quotePos >= 0 {
			return lang.ExtractQuoted(trimmed[quotePos:])
		}
	}

	// export ... from "path"
	if strings.HasPrefix(trimmed, "export ") {
		if fromPos := strings.Index(trimmed, " from "); fromPos >= 0 {
			return lang.ExtractQuoted(trimmed[fromPos+6:])
		}
	}

	// require("path")
	if parenPos := strings.Index(trimmed, "require("); parenPos >= 0 {
		return lang.ExtractQuoted(trimmed[parenPos+8:])
	}

	return "", false
}

// extractPythonImport only reports relative imports; absolute ones
// name installed packages.
func extractPythonImport(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "from ") {
		if importPos := strings.Index(trimmed, " import "); importPos >= 0 {
			modulePath := strings.TrimSpace(trimmed[5:importPos])
			if strings.HasPrefix(modulePath, ".") {
				return modulePath, true
			}
		}
	}

	if importPart, ok := strings.CutPrefix(trimmed, "import "); ok {
		importPart = strings.TrimSpace(importPart)
		if asPos := strings.Index(importPart, " as "); asPos >= 0 {
			importPart = importPart[:asPos]
		}
		if strings.HasPrefix(importPart, ".") {
			return strings.TrimSpace(importPart), true
		}
	}

	return "", false
}

func extractGoImport(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	afterImport, ok := strings.CutPrefix(trimmed, "import ")
	if !ok {
		return "", false
	}
	return lang.ExtractQuoted(strings.TrimSpace(afterImport))
}

func extractJavaLikeImport(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	if importPart, ok := strings.CutPrefix(trimmed, "import "); ok {
		importPart = strings.TrimSuffix(strings.TrimSpace(importPart), ";")
		if strings.HasPrefix(importPart, "static ") {
			return "", false
		}
		return importPart, true
	}

	// C#: using namespace, but not using x = ... declarations
	if !strings.Contains(trimmed, "=") {
		if importPart, ok := strings.CutPrefix(trimmed, "using "); ok {
			return strings.TrimSuffix(strings.TrimSpace(importPart), ";"), true
		}
	}

	return "", false
}

// extractCInclude keeps quoted includes plus angle-bracket includes
// that carry a path separator; plain <header> names are system headers.
func extractCInclude(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	afterInclude, ok := strings.CutPrefix(trimmed, "#include ")
	if !ok {
		return "", false
	}
	afterInclude = strings.TrimSpace(afterInclude)

	if path, ok := lang.ExtractQuoted(afterInclude); ok {
		return path, true
	}

	if strings.HasPrefix(afterInclude, "<") && strings.Contains(afterInclude, "/") {
		if end := strings.Index(afterInclude, ">"); end >= 0 {
			return afterInclude[1:end], true
		}
	}

	return "", false
}

func extractRubyRequire(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	if afterRequire, ok := strings.CutPrefix(trimmed, "require_relative "); ok {
		return lang.ExtractQuoted(strings.TrimSpace(afterRequire))
	}

	if afterRequire, ok := strings.CutPrefix(trimmed, "require "); ok {
		if path, ok := lang.ExtractQuoted(strings.TrimSpace(afterRequire)); ok && strings.HasPrefix(path, ".") {
			return path, true
		}
	}

	return "", false
}

func extractPHPInclude(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	for _, keyword := range []string{"require", "require_once", "include", "include_once"} {
		if afterKeyword, ok := strings.CutPrefix(trimmed, keyword); ok {
			if path, ok := lang.ExtractQuoted(strings.TrimSpace(afterKeyword)); ok {
				return path, true
			}
		}
	}

	return "", false
}

func extractShellSource(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	if path, ok := strings.CutPrefix(trimmed, "source "); ok {
		path = strings.TrimSpace(path)
		if quoted, ok := lang.ExtractQuoted(path); ok {
			return quoted, true
		}
		return path, true
	}

	if path, ok := strings.CutPrefix(trimmed, ". "); ok && !strings.HasPrefix(trimmed, "..") {
		path = strings.TrimSpace(path)
		if quoted, ok := lang.ExtractQuoted(path); ok {
			return quoted, true
		}
		return path, true
	}

	return "", false
}

func extractCSSImport(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	afterImport, ok := strings.CutPrefix(trimmed, "@import ")
	if !ok {
		return "", false
	}
	return lang.ExtractQuoted(strings.TrimSpace(afterImport))
}
