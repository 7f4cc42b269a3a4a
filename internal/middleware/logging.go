package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"remote": r.RemoteAddr,
				"ua":     r.Header.Get("User-Agent"),
			}
			if origin := r.Header.Get("Origin"); origin != "" {
				fields["origin"] = origin
			}
			if r.ContentLength > 0 {
				fields["bytes"] = r.ContentLength
			}
			log.WithFields(fields).Trace(" ====> request")
			next.ServeHTTP(w, r)
		})
	}
}
