package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"

	"notary/internal/core/version"
	perr "notary/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openapiYAML []byte

// docReader is swapped in tests to feed a broken document
var docReader = func() []byte { return openapiYAML }

func loadSpec() (map[string]any, error) {
	var spec map[string]any
	if err := yaml.Unmarshal(docReader(), &spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// serveDocJSON renders the embedded document as JSON with the runtime details
// filled in: servers, build version, shared error responses and security
func serveDocJSON(baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := loadSpec()
		if err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		spec["openapi"] = "3.0.3"
		if _, ok := spec["servers"]; !ok {
			spec["servers"] = []any{map[string]any{"url": baseURL}}
		}
		child(spec, "info")["version"] = version.Info().Version

		child(child(spec, "components"), "schemas")["ErrorResponse"] = errorSchema
		forEachOperation(spec, func(op map[string]any) {
			resps := child(op, "responses")
			for _, d := range defaultErrors {
				key := strconv.Itoa(d.code.HTTPStatus())
				if _, ok := resps[key]; !ok {
					resps[key] = errorResponse(d.code, d.msg)
				}
			}
		})
		applySecurity(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(spec); err != nil {
			http.Error(w, "spec encode error", http.StatusInternalServerError)
		}
	}
}

// child returns m[key] as a map, creating it when missing
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func forEachOperation(spec map[string]any, fn func(op map[string]any)) {
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		node, _ := p.(map[string]any)
		for _, o := range node {
			if op, ok := o.(map[string]any); ok {
				fn(op)
			}
		}
	}
}

// errorSchema mirrors the runtime error envelope
var errorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer"},
		"error":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

// defaultErrors are documented on every operation that does not say otherwise
var defaultErrors = []struct {
	code perr.ErrorCode
	msg  string
}{
	{perr.ErrorCodeValidation, "text is required"},
	{perr.ErrorCodePanic, "internal error"},
}

func errorResponse(code perr.ErrorCode, msg string) map[string]any {
	status := code.HTTPStatus()
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        int(code),
					"error":       msg,
					"request_id":  "notary/abc-000001",
				},
			},
		},
	}
}
