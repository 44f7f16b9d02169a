package selector

import "strings"

// DefaultRules returns the built-in rule table. Overlapping keyword sets are
// resolved by position, so entries must not be reordered.
func DefaultRules() []Rule {
	return []Rule{
		{
			Model:  ModelMistral,
			Reason: "Data Science/ML detected",
			Match: func(p, l string) bool {
				return containsAny(p,
					"machine learning", "ml", "pandas", "numpy", "dataframe", "scikit", "keras",
					"data science", "deep learning", "regression", "classification", "training",
					"inference", "stats",
				)
			},
		},
		{
			Model:  ModelCodeLlama,
			Reason: "Python detected",
			Match: func(p, l string) bool {
				return strings.Contains(l, "python") || strings.Contains(p, "python")
			},
		},
		{
			Model:  ModelQwenCoder,
			Reason: "JavaScript/Web detected",
			Match: func(p, l string) bool {
				return containsAny(l, "javascript", "js") ||
					containsAny(p, "javascript", "js", "web", "html", "css", "browser", "frontend", "react", "vue")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "Java detected",
			Match: func(p, l string) bool {
				return strings.Contains(l, "java") || strings.Contains(p, "java")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "C/C++ detected",
			Match: func(p, l string) bool {
				return containsAny(l, "c++", "cpp", "c language") || containsAny(p, "c++", "cpp")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "C# detected",
			Match: func(p, l string) bool {
				return strings.Contains(l, "c#") || strings.Contains(p, "c#")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "Go detected",
			Match: func(p, l string) bool {
				return containsAny(l, "go", "golang") || strings.Contains(p, "go lang")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "Rust detected",
			Match: func(p, l string) bool {
				return strings.Contains(l, "rust") || strings.Contains(p, "rust")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "Ruby detected",
			Match: func(p, l string) bool {
				return strings.Contains(l, "ruby") || strings.Contains(p, "ruby")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "TypeScript detected",
			Match: func(p, l string) bool {
				return strings.Contains(l, "typescript") || strings.Contains(p, "typescript")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "Swift/Kotlin detected",
			Match: func(p, l string) bool {
				return containsAny(l, "swift", "kotlin") || containsAny(p, "swift", "kotlin", "android", "ios")
			},
		},
		{
			Model:  ModelQwenCoder,
			Reason: "SQL/Database detected",
			Match: func(p, l string) bool {
				return strings.Contains(l, "sql") || strings.Contains(p, "sql") ||
					containsAny(p, "query", "database", "mysql", "postgres", "sqlite", "mongodb", "oracle", "db", "table", "column")
			},
		},
		{
			Model:  ModelQwenCoder,
			Reason: "Shell/Bash detected",
			Match: func(p, l string) bool {
				return containsAny(l, "bash", "shell", "sh") ||
					containsAny(p, "shell script", "bash script", "automation", "cli", "powershell")
			},
		},
		{
			Model:  ModelQwenCoder,
			Reason: "PHP detected",
			Match: func(p, l string) bool {
				return strings.Contains(l, "php") || strings.Contains(p, "php")
			},
		},
		{
			Model:  ModelQwenCoder,
			Reason: "DevOps detected",
			Match: func(p, l string) bool {
				return containsAny(l, "yaml", "docker", "compose") ||
					containsAny(p, "yaml", "docker", "docker-compose", "kubernetes")
			},
		},
		{
			Model:  ModelQwenCoder,
			Reason: "Frontend/UI/UX detected",
			Match: func(p, l string) bool {
				return containsAny(l, "html", "css") || containsAny(p, "html", "css", "ui", "ux", "responsive", "design")
			},
		},
		{
			Model:  ModelMistral,
			Reason: "Statistical/Matlab/R/SAS detected",
			Match: func(p, l string) bool {
				return containsAny(l, "matlab", "r", "sas") ||
					containsAny(p, "matlab", "r language", "sas", "regression analysis", "statistical")
			},
		},
	}
}
