package middleware

import (
	"net/http"
)

type APIVersionMiddleware struct {
	version string
	service string
}

func NewAPIVersionMiddleware(version, service string) APIVersionMiddleware {
	return APIVersionMiddleware{
		version: version,
		service: service,
	}
}

func (mw APIVersionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("API-Version", mw.version)

		if mw.service != "" {
			w.Header().Set("X-Service-Name", mw.service)
		}

		next.ServeHTTP(w, r)
	})
}
