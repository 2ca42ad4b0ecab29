package info

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/swiftmove/entity"
	"github.com/drblury/swiftmove/jsonutil"
)

// DocumentOptions carries the document-level metadata.
type DocumentOptions struct {
	Title        string
	Version      string
	Description  string
	ServerURL    string
	ContactName  string
	ContactEmail string
}

// Document is a validated OpenAPI description together with the JSON it was
// loaded from, which is what the documentation endpoints serve.
type Document struct {
	Spec *openapi3.T
	JSON []byte
}

// BuildOpenAPI describes the four operations of every entity plus the system
// routes, then loads and validates the result with kin-openapi.
func BuildOpenAPI(ctx context.Context, entities []entity.Entity, opts DocumentOptions) (*Document, error) {
	raw := map[string]any{
		"openapi": "3.0.3",
		"info":    documentInfo(opts),
		"paths":   documentPaths(entities),
		"components": map[string]any{
			"schemas": documentSchemas(entities),
		},
		"tags": documentTags(entities),
	}
	if opts.ServerURL != "" {
		raw["servers"] = []any{map[string]any{"url": opts.ServerURL}}
	}

	data, err := jsonutil.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	return &Document{Spec: spec, JSON: data}, nil
}

func documentInfo(opts DocumentOptions) map[string]any {
	info := map[string]any{
		"title":   opts.Title,
		"version": opts.Version,
	}
	if info["title"] == "" {
		info["title"] = "API"
	}
	if info["version"] == "" {
		info["version"] = "0.0.0"
	}
	if opts.Description != "" {
		info["description"] = opts.Description
	}
	if opts.ContactName != "" || opts.ContactEmail != "" {
		contact := map[string]any{}
		if opts.ContactName != "" {
			contact["name"] = opts.ContactName
		}
		if opts.ContactEmail != "" {
			contact["email"] = opts.ContactEmail
		}
		info["contact"] = contact
	}
	return info
}

func documentTags(entities []entity.Entity) []any {
	tags := make([]any, 0, len(entities)+1)
	for _, e := range entities {
		tags = append(tags, map[string]any{"name": e.Tag})
	}
	return append(tags, map[string]any{"name": "System"})
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{"application/json": map[string]any{"schema": schema}}
}

func response(description string, schema map[string]any) map[string]any {
	r := map[string]any{"description": description}
	if schema != nil {
		r["content"] = jsonContent(schema)
	}
	return r
}

func fieldSchema(f entity.Field) map[string]any {
	schema := map[string]any{"nullable": true}
	switch f.Type {
	case entity.DateTime:
		schema["type"] = "string"
		schema["format"] = "date-time"
	default:
		schema["type"] = string(f.Type)
	}
	if f.Description != "" {
		schema["description"] = f.Description
	}
	if f.Example != nil {
		schema["example"] = f.Example
	}
	return schema
}

func documentSchemas(entities []entity.Entity) map[string]any {
	schemas := map[string]any{
		"Message": map[string]any{
			"type":     "object",
			"required": []any{"message"},
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
			},
		},
		"Error": map[string]any{
			"type":     "object",
			"required": []any{"error"},
			"properties": map[string]any{
				"error": map[string]any{
					"type":     "object",
					"required": []any{"message"},
					"properties": map[string]any{
						"message": map[string]any{"type": "string"},
						"stack": map[string]any{
							"type":        "string",
							"description": "Only present when the service runs in development mode",
						},
					},
				},
			},
		},
	}

	for _, e := range entities {
		input := map[string]any{}
		for _, f := range e.Fields {
			input[f.Name] = fieldSchema(f)
		}
		record := map[string]any{
			"id": map[string]any{"type": "integer", "format": "int64", "example": 1},
		}
		for name, schema := range input {
			record[name] = schema
		}

		schemas[e.Name+"Input"] = map[string]any{"type": "object", "properties": input}
		schemas[e.Name] = map[string]any{"type": "object", "required": []any{"id"}, "properties": record}
	}
	return schemas
}

func documentPaths(entities []entity.Entity) map[string]any {
	serverError := response("Database fault", ref("Error"))
	badRequest := response("Body is not a JSON object", ref("Error"))

	paths := map[string]any{
		"/": map[string]any{
			"get": map[string]any{
				"tags":        []any{"System"},
				"summary":     "Service banner",
				"operationId": "getRoot",
				"responses": map[string]any{
					"200": map[string]any{
						"description": "The service is running",
						"content": map[string]any{
							"text/plain": map[string]any{"schema": map[string]any{"type": "string"}},
						},
					},
				},
			},
		},
		"/healthz": probePath("getHealthz", "Liveness probe"),
		"/readyz":  probePath("getReadyz", "Readiness probe, pings the database"),
	}

	for _, e := range entities {
		idParam := map[string]any{
			"name":        "id",
			"in":          "path",
			"required":    true,
			"description": e.Label + " identifier",
			"schema":      map[string]any{"type": "integer", "format": "int64"},
		}
		notFound := response(e.NotFoundMessage(), ref("Message"))
		tags := []any{e.Tag}

		paths[e.CollectionPath()] = map[string]any{
			"get": map[string]any{
				"tags":        tags,
				"summary":     "List every " + e.Label,
				"operationId": "list" + e.Name,
				"responses": map[string]any{
					"200": response("All rows of "+e.Table, map[string]any{"type": "array", "items": ref(e.Name)}),
					"500": serverError,
				},
			},
			"post": map[string]any{
				"tags":        tags,
				"summary":     "Create a " + e.Label,
				"operationId": "create" + e.Name,
				"requestBody": map[string]any{"required": true, "content": jsonContent(ref(e.Name + "Input"))},
				"responses": map[string]any{
					strconv.Itoa(http.StatusCreated): response(e.Label+" created", ref(e.Name)),
					"400":                             badRequest,
					"500":                             serverError,
				},
			},
		}

		paths[e.ItemPath()] = map[string]any{
			"parameters": []any{idParam},
			"put": map[string]any{
				"tags":        tags,
				"summary":     "Overwrite every field of a " + e.Label,
				"operationId": "update" + e.Name,
				"requestBody": map[string]any{"required": true, "content": jsonContent(ref(e.Name + "Input"))},
				"responses": map[string]any{
					"200": response(e.UpdatedMessage(), ref("Message")),
					"400": badRequest,
					"404": notFound,
					"500": serverError,
				},
			},
			"delete": map[string]any{
				"tags":        tags,
				"summary":     "Delete a " + e.Label,
				"operationId": "delete" + e.Name,
				"responses": map[string]any{
					"200": response(e.DeletedMessage(), ref("Message")),
					"404": notFound,
					"500": serverError,
				},
			},
		}
	}
	return paths
}

func probePath(operationID, summary string) map[string]any {
	status := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string"},
		},
	}
	return map[string]any{
		"get": map[string]any{
			"tags":        []any{"System"},
			"summary":     summary,
			"operationId": operationID,
			"responses": map[string]any{
				"200": response("Healthy", status),
				"503": response("Unhealthy", ref("Error")),
			},
		},
	}
}
