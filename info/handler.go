package info

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/drblury/swiftmove/probe"
	"github.com/drblury/swiftmove/responder"
)

// InfoProvider returns the payload that will be exposed by the version endpoint.
type InfoProvider func() any

// SwaggerProvider returns the raw OpenAPI JSON document served by the
// documentation endpoints.
type SwaggerProvider func() ([]byte, error)

// InfoOption configures an InfoHandler.
type InfoOption func(*InfoHandler)

// TemplateDataProvider allows callers to customise the data payload passed to
// the documentation HTML template at render time.
type TemplateDataProvider func(r *http.Request, baseURL string) any

const (
	defaultProbeTimeout = 2 * time.Second
	defaultBanner       = "API is running"
	defaultDocsTitle    = "API Documentation"
)

// ProbeFunc is executed to determine the outcome of liveness or readiness
// probes. Returning a non-nil error marks the probe as failed.
type ProbeFunc = probe.Func

// InfoHandler serves everything that is not an entity route: the banner at
// "/", probes, build information and the API documentation.
type InfoHandler struct {
	*responder.Responder
	baseURL         string
	banner          string
	docsTitle       string
	infoProvider    InfoProvider
	swaggerProvider SwaggerProvider
	openapiTemplate *template.Template
	dataProvider    TemplateDataProvider
	probeTimeout    time.Duration
	livenessChecks  []ProbeFunc
	readinessChecks []ProbeFunc
}

// NewInfoHandler constructs an InfoHandler with defaults for every
// collaborator.
func NewInfoHandler(opts ...InfoOption) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.NewResponder(),
		banner:    defaultBanner,
		docsTitle: defaultDocsTitle,
		infoProvider: func() any {
			return map[string]string{}
		},
		swaggerProvider: func() ([]byte, error) {
			return nil, errors.New("api swagger provider not configured")
		},
		openapiTemplate: defaultOpenAPITemplate,
		probeTimeout:    defaultProbeTimeout,
	}
	ih.dataProvider = ih.defaultTemplateData
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithInfoResponder replaces the responder used to craft JSON responses and
// handle error reporting.
func WithInfoResponder(responder *responder.Responder) InfoOption {
	return func(ih *InfoHandler) {
		if responder != nil {
			ih.Responder = responder
		}
	}
}

// WithBaseURL sets the URL prefix injected into the documentation page.
func WithBaseURL(baseURL string) InfoOption {
	return func(ih *InfoHandler) {
		ih.baseURL = baseURL
	}
}

// WithBanner sets the plain text answered at "/".
func WithBanner(banner string) InfoOption {
	return func(ih *InfoHandler) {
		if banner != "" {
			ih.banner = banner
		}
	}
}

// WithDocsTitle sets the title of the documentation page.
func WithDocsTitle(title string) InfoOption {
	return func(ih *InfoHandler) {
		if title != "" {
			ih.docsTitle = title
		}
	}
}

// WithInfoProvider swaps the default metadata provider.
func WithInfoProvider(provider InfoProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.infoProvider = provider
		}
	}
}

// WithSwaggerProvider sets the source of the OpenAPI JSON document.
func WithSwaggerProvider(provider SwaggerProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.swaggerProvider = provider
		}
	}
}

// WithDocument serves a document produced by BuildOpenAPI.
func WithDocument(doc *Document) InfoOption {
	return func(ih *InfoHandler) {
		if doc == nil {
			return
		}
		data := doc.JSON
		ih.swaggerProvider = func() ([]byte, error) {
			return data, nil
		}
	}
}

// WithOpenAPITemplate injects a custom html/template used to render the
// documentation page.
func WithOpenAPITemplate(tmpl *template.Template) InfoOption {
	return func(ih *InfoHandler) {
		if tmpl != nil {
			ih.openapiTemplate = tmpl
		}
	}
}

// WithOpenAPITemplateData overrides the template data provider that runs for
// each request to the HTML endpoint.
func WithOpenAPITemplateData(provider TemplateDataProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.dataProvider = provider
		}
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for probe checks.
func WithProbeTimeout(timeout time.Duration) InfoOption {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the liveness checks.
func WithLivenessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks replaces the readiness checks.
func WithReadinessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.readinessChecks = filterProbes(checks)
	}
}

// Register mounts the handler's routes on mux.
func (ih *InfoHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", ih.GetRoot)
	mux.HandleFunc("GET /healthz", ih.GetHealthz)
	mux.HandleFunc("GET /readyz", ih.GetReadyz)
	mux.HandleFunc("GET /version", ih.GetVersion)
	mux.HandleFunc("GET /api-docs", ih.GetOpenAPIHTML)
	mux.HandleFunc("GET /api-docs/{$}", ih.GetOpenAPIHTML)
	mux.HandleFunc("GET "+openAPIJSONPath, ih.GetOpenAPIJSON)
	mux.HandleFunc("GET "+openAPIYAMLPath, ih.GetOpenAPIYAML)
}

func (ih *InfoHandler) defaultTemplateData(_ *http.Request, baseURL string) any {
	return map[string]any{
		"BaseURL": baseURL,
		"SpecURL": baseURL + openAPIJSONPath,
		"Title":   ih.docsTitle,
	}
}
