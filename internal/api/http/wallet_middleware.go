package httpapi

import (
	"context"
	"net/http"
)

type walletContextKey string

const walletKey walletContextKey = "wallet"

func walletFromHeader(r *http.Request) string {
	return r.Header.Get("X-Wallet-Address")
}

// requireSession guards robot command routes. The wallet header must be
// present; when payments are enabled, the wallet must also hold an active
// session. With payments disabled, any wallet passes through (session
// binding is still enforced downstream when resolving the wallet's robot).
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		walletAddr := walletFromHeader(r)
		if walletAddr == "" {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "wallet address required, include X-Wallet-Address header")
			return
		}
		if s.gate.Enabled() {
			if status := s.accessSvc.Status(walletAddr); !status.Active {
				respondError(w, http.StatusForbidden, "NO_SESSION", "no active session, purchase access first")
				return
			}
		}
		ctx := context.WithValue(r.Context(), walletKey, walletAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func walletFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(walletKey).(string); ok {
		return v
	}
	return ""
}
