package globals

// JwtSecret signs admin tokens. Set once from the environment at startup.
var JwtSecret = []byte("change-me")

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
