package api

import (
	"fmt"
	"net/http"
	"strings"
)

func (s *SocialApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				err, ok := v.(error)
				if !ok {
					err = fmt.Errorf("%v", v)
				}
				s.log.Printf("recovered panic serving %s %s: %v", r.Method, r.URL.Path, err)
				errResp := NewInternalServerError(err)
				w.Header().Set("Connection", "close")
				s.writeJson(w, errResp.StatusCode, errResp)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// isWebsocketUpgrade reports whether the request is asking to switch
// protocols. Response headers written before the hijack never reach the
// peer, so the auth middleware skips cache directives for these.
func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func (s *SocialApp) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenCookie, err := r.Cookie(tokenCookieKey)
		if err != nil {
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		userId, err := s.extractUserIdFromToken(tokenCookie.Value)
		if err != nil {
			s.log.Printf("rejecting session token: %v", err)
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		if !isWebsocketUpgrade(r) {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		}

		next(w, r.WithContext(WithUserId(r.Context(), userId)))
	}
}
