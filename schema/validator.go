// Package historyschema validates persisted history documents before they
// are trusted by the engine. A failing document is treated as corrupt state
// by the caller, never as a fatal error.
package historyschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed portal_history.schema.json
var portalHistorySchemaJSON string

//go:embed aggregator_history.schema.json
var aggregatorHistorySchemaJSON string

var (
	compileOnce          sync.Once
	portalSchema         *jsonschema.Schema
	aggregatorSchema     *jsonschema.Schema
	compiledSchemasError error
)

// ValidatePortalHistory checks a raw portal history document.
func ValidatePortalHistory(raw []byte) error {
	return validate(raw, func() *jsonschema.Schema { return portalSchema })
}

// ValidateAggregatorHistory checks a raw aggregator history document.
func ValidateAggregatorHistory(raw []byte) error {
	return validate(raw, func() *jsonschema.Schema { return aggregatorSchema })
}

func validate(raw []byte, pick func() *jsonschema.Schema) error {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return fmt.Errorf("decode history JSON: %w", err)
	}

	if err := compileSchemas(); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	if err := pick().Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		sources := map[string]string{
			"portal_history.schema.json":     portalHistorySchemaJSON,
			"aggregator_history.schema.json": aggregatorHistorySchemaJSON,
		}
		for name, source := range sources {
			if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
				compiledSchemasError = fmt.Errorf("add schema resource %s: %w", name, err)
				return
			}
		}

		portal, err := compiler.Compile("portal_history.schema.json")
		if err != nil {
			compiledSchemasError = fmt.Errorf("compile portal schema: %w", err)
			return
		}
		aggregator, err := compiler.Compile("aggregator_history.schema.json")
		if err != nil {
			compiledSchemasError = fmt.Errorf("compile aggregator schema: %w", err)
			return
		}

		portalSchema = portal
		aggregatorSchema = aggregator
	})

	if compiledSchemasError != nil {
		return compiledSchemasError
	}
	if portalSchema == nil || aggregatorSchema == nil {
		return fmt.Errorf("schemas not initialized")
	}
	return nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("document contains trailing content")
	}

	return value, nil
}
