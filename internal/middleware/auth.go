package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"

	"github.com/beewords/beewords-api/internal/contextx"
	"github.com/beewords/beewords-api/internal/httpx"
	"github.com/beewords/beewords-api/internal/modules/user"
	"github.com/beewords/beewords-api/internal/session"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// JWTAuthHuma is a router-agnostic Huma middleware that validates a bearer
// session token, rejects revoked tokens, and injects the user ID and verified
// claims into the request context for downstream handlers.
// On failure it writes an RFC7807 problem+json response with code ErrUnauthorized.
func JWTAuthHuma(tokens *user.TokenIssuer, revoker session.Revoker, logger *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)

		writeUnauthorized := func(detail string) {
			p := &httpx.Problem{
				Type:      "urn:problem:auth/err-unauthorized",
				Title:     http.StatusText(http.StatusUnauthorized),
				Status:    http.StatusUnauthorized,
				Detail:    detail,
				Code:      "ErrUnauthorized",
				RequestID: chimw.GetReqID(r.Context()),
			}
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(p.GetStatus())
			_ = json.NewEncoder(w).Encode(p)
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeUnauthorized("Authorization token not provided")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			writeUnauthorized("invalid authorization header format")
			return
		}

		claims, err := tokens.VerifyToken(tokenString)
		if err != nil {
			writeUnauthorized("Invalid or expired token")
			return
		}

		revoked, err := revoker.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			logger.Error("failed to check token revocation", "error", err)
			writeUnauthorized("Invalid or expired token")
			return
		}
		if revoked {
			writeUnauthorized("Invalid or expired token")
			return
		}

		ctx = huma.WithValue(ctx, contextx.UserIDKey, claims.UserID)
		ctx = huma.WithValue(ctx, contextx.SessionClaimsKey, claims)
		next(ctx)
	}
}

// ClientIP is a chi middleware that copies the request's remote address into
// the context so handlers can hand it to the bot-check collaborator. It runs
// after chi's RealIP, which has already rewritten RemoteAddr from proxy headers.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if i := strings.LastIndex(ip, ":"); i > 0 && !strings.Contains(ip[i:], "]") {
			ip = ip[:i]
		}
		ctx := context.WithValue(r.Context(), contextx.RemoteIPKey, ip)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
