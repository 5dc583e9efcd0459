package importer

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vinayprograms/syllabus/internal/content"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemasOnce sync.Once
	schemas     map[content.Kind]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() (map[content.Kind]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiled := make(map[content.Kind]*jsonschema.Schema)
		for _, kind := range content.Kinds {
			name := string(kind) + ".json"
			data, err := schemaFS.ReadFile("schemas/" + name)
			if err != nil {
				schemasErr = err
				return
			}
			compiler := jsonschema.NewCompiler()
			compiler.Draft = jsonschema.Draft2020
			if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
				schemasErr = fmt.Errorf("load %s schema: %w", kind, err)
				return
			}
			s, err := compiler.Compile(name)
			if err != nil {
				schemasErr = fmt.Errorf("compile %s schema: %w", kind, err)
				return
			}
			compiled[kind] = s
		}
		schemas = compiled
	})
	return schemas, schemasErr
}

// checkShape validates a decoded file against the schema for its kind and
// flattens the failures into one message.
func checkShape(kind content.Kind, doc map[string]any) error {
	compiled, err := compileSchemas()
	if err != nil {
		return err
	}
	s, ok := compiled[kind]
	if !ok {
		return fmt.Errorf("no schema for %s", kind)
	}
	err = s.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			loc := node.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			issues = append(issues, loc+": "+node.Message)
			return
		}
		for _, c := range node.Causes {
			walk(c)
		}
	}
	walk(verr)
	return fmt.Errorf("invalid %s file: %s", kind, strings.Join(issues, "; "))
}
