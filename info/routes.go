package info

import (
	"errors"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

const (
	openAPIJSONPath = "/api-docs/openapi.json"
	openAPIYAMLPath = "/api-docs/openapi.yaml"
)

// GetRoot answers "/" with the plain text banner.
func (ih *InfoHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	ih.RespondWithText(w, r, http.StatusOK, ih.banner)
}

// GetHealthz implements the liveness probe.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.livenessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ok")
}

// GetReadyz implements the readiness probe.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.readinessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ready")
}

// GetVersion returns the structure provided by the configured InfoProvider.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.infoProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetOpenAPIJSON writes the OpenAPI document as JSON.
func (ih *InfoHandler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	data, err := ih.swaggerProvider()
	if err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to load swagger spec")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(data); err != nil {
		ih.Logger().Error("failed to write swagger response", "error", err)
	}
}

// GetOpenAPIYAML writes the OpenAPI document as YAML.
func (ih *InfoHandler) GetOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	data, err := ih.swaggerProvider()
	if err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to load swagger spec")
		return
	}

	out, err := jsonToYAML(data)
	if err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to convert swagger spec")
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	if _, err = w.Write(out); err != nil {
		ih.Logger().Error("failed to write swagger response", "error", err)
	}
}

// GetOpenAPIHTML renders the Swagger UI page, which loads the JSON document.
func (ih *InfoHandler) GetOpenAPIHTML(w http.ResponseWriter, r *http.Request) {
	if ih.openapiTemplate == nil {
		err := errors.New("openapi template not configured")
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render openapi template")
		return
	}

	var data any
	if ih.dataProvider != nil {
		data = ih.dataProvider(r, ih.baseURL)
	}
	if data == nil {
		data = ih.defaultTemplateData(r, ih.baseURL)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ih.openapiTemplate.Execute(w, data); err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render openapi template")
		return
	}
}

// jsonToYAML re-encodes a JSON document as YAML. JSON is a subset of YAML, so
// yaml.v3 reads it directly into a node tree; the node is then restyled from
// flow to block form to keep key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse json document: %w", err)
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

func blockStyle(node *yaml.Node) {
	if node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode {
		node.Style = 0
	}
	if node.Kind == yaml.ScalarNode && node.Style == yaml.DoubleQuotedStyle {
		node.Style = 0
	}
	for _, child := range node.Content {
		blockStyle(child)
	}
}
