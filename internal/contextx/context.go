package contextx

// Key is a private type to avoid collisions in request context keys.
type Key string

// UserIDKey is the context key used to store the authenticated user's ID (int64).
const UserIDKey Key = "userID"

// SessionClaimsKey is the context key used to store the verified session claims.
const SessionClaimsKey Key = "sessionClaims"

// RemoteIPKey is the context key used to store the client IP for bot-check calls.
const RemoteIPKey Key = "remoteIP"
