package driven

// ConfigStore provides access to persisted configuration.
// Keys use dot notation, e.g. "backend.query_url".
type ConfigStore interface {
	// Get retrieves a value by key, returning false if not set.
	Get(key string) (any, bool)

	// GetString retrieves a string value, "" if not set.
	GetString(key string) string

	// GetInt retrieves an integer value, 0 if not set.
	GetInt(key string) int

	// GetBool retrieves a boolean value, false if not set.
	GetBool(key string) bool

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Load re-reads configuration from the backing store.
	Load() error

	// Watch registers a callback invoked whenever the backing store
	// changes externally. Returns a stop function.
	Watch(onChange func()) (stop func(), err error)
}
