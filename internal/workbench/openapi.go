package workbench

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

//go:embed openapi.yaml
var apiDocument []byte

// LoadAPIDocument parses and validates the OpenAPI description of the
// workbench endpoints.
func LoadAPIDocument(ctx context.Context) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}

	doc, err := loader.LoadFromData(apiDocument)
	if err != nil {
		return nil, fmt.Errorf("workbench: load api document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("workbench: validate api document: %w", err)
	}
	return doc, nil
}

// DocumentHandler serves doc as JSON.
func DocumentHandler(doc *openapi3.T) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		respond.JSON(writer, http.StatusOK, doc)
	}
}
