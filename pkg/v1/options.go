package v1

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	path      string
	dimension int
}

// WithPath sets the vector store file. Defaults to an in-library path
// resolved from the environment.
func WithPath(path string) Option {
	return func(c *clientConfig) {
		c.path = path
	}
}

// WithDimension sets the embedding dimension.
func WithDimension(dim int) Option {
	return func(c *clientConfig) {
		c.dimension = dim
	}
}
