// Package swaggerkit serves the embedded OpenAPI document and the Swagger UI
package swaggerkit

import (
	"net/http"

	phttp "notary/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocsPath is where the UI and doc.json live
const DocsPath = "/api/docs"

// Mount serves the UI and the rendered document when enabled; baseURL is
// advertised as the server the documented routes live under
func Mount(r phttp.Router, enabled bool, baseURL string) {
	if !enabled {
		return
	}
	r.Get(DocsPath, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, DocsPath+"/", http.StatusPermanentRedirect)
	})
	r.Get(DocsPath+"/doc.json", serveDocJSON(baseURL))
	r.Handle(DocsPath+"/*", httpSwagger.Handler(httpSwagger.URL(DocsPath+"/doc.json")))
}
