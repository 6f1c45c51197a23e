package masking

import (
	"log/slog"
	"regexp"
)

// CompiledPattern holds a pre-compiled regex pattern with its replacement.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// builtinPatterns are the default secret-shaped patterns scrubbed from every
// document regardless of source type. Unlike tarsy's config-driven pattern
// groups, these are fixed: the core has no per-room masking policy, only a
// single ingestion boundary.
var builtinPatterns = []struct {
	name        string
	pattern     string
	replacement string
}{
	{"aws_access_key", `AKIA[0-9A-Z]{16}`, "[MASKED_AWS_KEY]"},
	{"generic_api_key", `(?i)(api[_-]?key|token|secret)["']?\s*[:=]\s*["']?[A-Za-z0-9_\-]{16,}`, "[MASKED_SECRET]"},
	{"bearer_token", `(?i)bearer\s+[A-Za-z0-9_\-\.]{16,}`, "[MASKED_BEARER]"},
	{"private_key_block", `-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`, "[MASKED_PRIVATE_KEY]"},
	{"email", `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`, "[MASKED_EMAIL]"},
}

// compileBuiltinPatterns compiles every builtin pattern. Invalid patterns
// (none, in practice, since they're fixed above) are logged and skipped
// rather than failing ingestion.
func compileBuiltinPatterns() []*CompiledPattern {
	compiled := make([]*CompiledPattern, 0, len(builtinPatterns))
	for _, p := range builtinPatterns {
		re, err := regexp.Compile(p.pattern)
		if err != nil {
			slog.Warn("masking: skipping invalid builtin pattern", "name", p.name, "error", err)
			continue
		}
		compiled = append(compiled, &CompiledPattern{Name: p.name, Regex: re, Replacement: p.replacement})
	}
	return compiled
}
