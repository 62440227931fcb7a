package validate

import (
	"context"
	"io/ioutil"
	"path"
	"strings"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/goccy/go-yaml"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/gqlcheck/gqlcheck/internal/log"
	"github.com/gqlcheck/gqlcheck/internal/testutils"
)

type locationDump struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
}

type errorDump struct {
	Message   string         `yaml:"message"`
	Locations []locationDump `yaml:"locations,omitempty"`
	Code      interface{}    `yaml:"code,omitempty"`
}

func dumpErrors(errs gqlerror.List) ([]byte, error) {
	// keep the golden files free of struct internals
	dumps := make([]errorDump, 0, len(errs))
	for _, gErr := range errs {
		dump := errorDump{
			Message: gErr.Message,
			Code:    gErr.Extensions["code"],
		}
		for _, loc := range gErr.Locations {
			dump.Locations = append(dump.Locations, locationDump{Line: loc.Line, Column: loc.Column})
		}
		dumps = append(dumps, dump)
	}
	return yaml.Marshal(dumps)
}

func TestValidateGolden(t *testing.T) {
	const testFileDir = "./_testdata/overlapping/assets"
	const expectFileDir = "./_testdata/overlapping/expected"

	files, err := ioutil.ReadDir(testFileDir)
	if err != nil {
		t.Fatal(err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if !strings.HasSuffix(file.Name(), ".graphql") {
			continue
		}

		t.Run(file.Name(), func(t *testing.T) {
			b, err := ioutil.ReadFile(path.Join(testFileDir, file.Name()))
			if err != nil {
				t.Fatal(err)
			}

			schemaFile := testutils.FindSchemaFileName(t, string(b))
			t.Logf("schema: %s, operation: %s", schemaFile, file.Name())

			schemaBytes, err := ioutil.ReadFile(path.Join(testFileDir, schemaFile))
			if err != nil {
				t.Fatal(err)
			}

			schema, gErr := gqlparser.LoadSchema(&ast.Source{
				Name:  schemaFile,
				Input: string(schemaBytes),
			})
			if gErr != nil {
				t.Fatal(gErr)
			}

			doc, parseErr := parser.ParseQuery(&ast.Source{
				Name:  file.Name(),
				Input: string(b),
			})
			if parseErr != nil {
				t.Fatal(parseErr)
			}

			ctx := context.Background()
			ctx = log.WithLogger(ctx, testr.New(t))

			errs := Validate(ctx, schema, doc)

			actual, err := dumpErrors(errs)
			if err != nil {
				t.Fatal(err)
			}

			testutils.CheckGoldenFile(t, actual, path.Join(expectFileDir, file.Name()+".errors.yaml"))
		})
	}
}
