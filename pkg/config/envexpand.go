package config

import "os"

// ExpandEnv expands environment variables in YAML content, ${VAR} and
// $VAR syntax, before parsing. Missing variables expand to empty string;
// validation catches required fields left empty.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
