package services

import (
	"path/filepath"
	"strings"
)

// UnknownLanguage marks files the reviewer has no language mapping for.
// Such files still get static checks but skip the LLM pass.
const UnknownLanguage = "Unknown"

// languageByExtension maps file extensions to language names used in
// retrieval queries and review prompts.
var languageByExtension = map[string]string{
	".py":    "Python",
	".java":  "Java",
	".js":    "JavaScript",
	".jsx":   "JavaScript (React)",
	".ts":    "TypeScript",
	".tsx":   "TypeScript (React)",
	".go":    "Go",
	".rb":    "Ruby",
	".php":   "PHP",
	".cs":    "C#",
	".cpp":   "C++",
	".c":     "C",
	".rs":    "Rust",
	".kt":    "Kotlin",
	".swift": "Swift",
	".scala": "Scala",
	".sql":   "SQL",
	".sh":    "Shell/Bash",
	".yml":   "YAML",
	".yaml":  "YAML",
	".json":  "JSON",
	".xml":   "XML",
	".html":  "HTML",
	".css":   "CSS",
}

// LanguageForFile detects the programming language from a file extension.
func LanguageForFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	return UnknownLanguage
}
