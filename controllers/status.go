// File: /controllers/status.go
package controllers

import (
	"errors"
	"net/http"

	"athlos-api/services"
)

// serviceStatus maps an unclassified service error to a response code.
// Store outages surface as 503 so clients and load balancers can tell a
// transient backend failure from a bug.
func serviceStatus(err error) int {
	if errors.Is(err, services.ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
