package info

import (
	_ "embed"
	"html/template"
)

//go:embed assets/swagger.html
var openapiHTMLSwaggerUI []byte

var defaultOpenAPITemplate = template.Must(
	template.New("openapi-swagger-ui").Parse(string(openapiHTMLSwaggerUI)),
)
