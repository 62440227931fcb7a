package testutils

import (
	"regexp"
)

var schemaFileRe = regexp.MustCompile(`(?m)^# schema:\s*([^\s]+)$`)

// FindSchemaFileName extracts the `# schema: <file>` comment header a
// test query file uses to point at its schema.
func FindSchemaFileName(t TestingT, source string) string {
	t.Helper()

	ss := schemaFileRe.FindStringSubmatch(source)
	if len(ss) != 2 {
		t.Fatal("schema file directive mismatch")
	}

	return ss[1]
}
