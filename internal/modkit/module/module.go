// Package module defines the contract a modkit module satisfies and the
// helpers bootstrap uses to pull typed ports out of one
package module

import (
	phttp "notary/internal/platform/net/http"
)

// Module is mounted by the API and may expose ports to its siblings
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
