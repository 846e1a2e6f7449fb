package contextkeys

// Custom type to avoid context key collisions.
type contextKey string

// DBContextKey is the key under which the request-scoped *gorm.DB
// (pool or test transaction) is stored.
const DBContextKey = contextKey("db")
