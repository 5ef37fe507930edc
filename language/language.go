// Package language maps file names to the language identifiers reported
// to the collector. Detection is a pure lookup: it never fails and never
// touches the filesystem.
package language

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"
)

// Plaintext is the identifier used when no language can be determined.
const Plaintext = "plaintext"

// extensionLanguages maps file extensions to collector language
// identifiers. Extensions the collector has no dedicated bucket for map
// to plaintext on purpose.
var extensionLanguages = map[string]string{
	"rs":     "rust",
	"js":     "javascript",
	"ts":     "typescript",
	"tsx":    "typescriptreact",
	"jsx":    "javascriptreact",
	"py":     "python",
	"go":     "go",
	"java":   "java",
	"cpp":    "cpp",
	"cc":     "cpp",
	"cxx":    "cpp",
	"c":      "c",
	"h":      "cpp",
	"hpp":    "cpp",
	"cs":     "csharp",
	"rb":     "ruby",
	"php":    "php",
	"swift":  "swift",
	"kt":     "kotlin",
	"kts":    "kotlin",
	"scala":  "scala",
	"sh":     "bash",
	"bash":   "bash",
	"html":   "html",
	"css":    "css",
	"scss":   "scss",
	"sass":   "scss",
	"json":   "json",
	"yaml":   "yaml",
	"yml":    "yaml",
	"toml":   Plaintext,
	"xml":    Plaintext,
	"md":     "markdown",
	"sql":    "sql",
	"vim":    Plaintext,
	"lua":    "lua",
	"r":      "r",
	"dart":   "dart",
	"ex":     Plaintext,
	"exs":    Plaintext,
	"erl":    Plaintext,
	"clj":    Plaintext,
	"cljs":   Plaintext,
	"hs":     "haskell",
	"ml":     Plaintext,
	"elm":    Plaintext,
	"vue":    Plaintext,
	"svelte": Plaintext,
}

// displayNames maps language identifiers to the short labels used in log
// lines and console output.
var displayNames = map[string]string{
	"rust":            "Rust",
	"javascript":      "JS",
	"typescript":      "TS",
	"typescriptreact": "TSX",
	"javascriptreact": "JSX",
	"python":          "Python",
	"go":              "Go",
	"java":            "Java",
	"cpp":             "C++",
	"c":               "C",
	"csharp":          "C#",
	"ruby":            "Ruby",
	"php":             "PHP",
	"swift":           "Swift",
	"kotlin":          "Kotlin",
	"scala":           "Scala",
	"bash":            "Bash",
	"html":            "HTML",
	"css":             "CSS",
	"scss":            "SCSS",
	"json":            "JSON",
	"yaml":            "YAML",
	"markdown":        "MD",
	"sql":             "SQL",
	"lua":             "Lua",
	"r":               "R",
	"dart":            "Dart",
	"haskell":         "Haskell",
	Plaintext:         "Text",
}

// Detect returns the language identifier for a file name. The extension
// table is authoritative; names it does not cover (extensionless files
// like Makefile, unusual extensions) go through enry by filename before
// falling back to plaintext.
func Detect(fileName string) string {
	ext := extension(fileName)
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}

	if lang := enry.GetLanguage(path.Base(fileName), nil); lang != enry.OtherLanguage {
		if id := normalize(lang); id != "" {
			return id
		}
	}

	return Plaintext
}

// DisplayName returns the human-readable label for a language
// identifier, "Unknown" when there is none. Display mapping is cosmetic
// and never affects accounting.
func DisplayName(languageID string) string {
	if name, ok := displayNames[languageID]; ok {
		return name
	}
	return "Unknown"
}

// extension returns the substring after the last dot, lower-cased.
// A name without a dot yields the empty string.
func extension(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}
	return strings.ToLower(fileName[idx+1:])
}

// normalize converts an enry language name to a collector identifier.
// Only languages the collector recognizes survive; everything else maps
// to the empty string so the caller falls back to plaintext.
func normalize(enryName string) string {
	id := strings.ToLower(enryName)
	switch id {
	case "c++":
		id = "cpp"
	case "c#":
		id = "csharp"
	case "shell":
		id = "bash"
	}
	if _, ok := displayNames[id]; ok {
		return id
	}
	return ""
}
