package catalog

// DefaultIgnoreDirs are directory names skipped during scanning at any
// depth.
var DefaultIgnoreDirs = []string{
	".git", "venv", "env", "__pycache__", "node_modules", ".vscode", ".idea",
}

// DefaultMaxFileSize caps how large a file can be before its content
// is skipped during a scan.
const DefaultMaxFileSize = 10 * 1024 * 1024

// textExtensions lists the extensions whose content is loaded during a
// scan. Files outside this set still get a metadata record.
var textExtensions = map[string]bool{
	"py": true, "js": true, "ts": true, "java": true, "cpp": true,
	"h": true, "cs": true, "go": true, "rs": true,
	"php": true, "rb": true, "swift": true, "kt": true, "c": true,
	"jsx": true, "tsx": true, "html": true,
	"css": true, "scss": true, "json": true, "yml": true, "yaml": true,
	"md": true, "txt": true,
	"xml": true, "sql": true, "sh": true, "bat": true, "ps1": true,
	"r": true, "dart": true, "lua": true,
	"m": true, "mm": true, "pl": true, "pm": true, "conf": true,
	"config": true, "ini": true, "toml": true,
	"vue": true, "svelte": true, "elm": true, "clj": true, "scala": true,
	"groovy": true, "ex": true, "exs": true,
	"erl": true, "hs": true, "jl": true, "tf": true, "gitignore": true,
	"env": true, "gradle": true,
}

// IsTextExtension reports whether files with the given extension have
// their content loaded during scanning.
func IsTextExtension(ext string) bool {
	return textExtensions[ext]
}
