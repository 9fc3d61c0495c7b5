package httputil

// ContextKey is the type of keys set on the gin context.
type ContextKey string

// ContextURL is the key under which the public API URL is stored.
const ContextURL ContextKey = "requestURL"
