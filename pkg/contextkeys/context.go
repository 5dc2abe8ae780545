package contextkeys

// Custom type so the key cannot collide with other context values.
type contextKey string

// DBContextKey is the key under which a *gorm.DB (the connection pool, or an
// injected test transaction) travels through the request context.
const DBContextKey = contextKey("db")
