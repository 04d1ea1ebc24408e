package envvar

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/sanLimbu/task-manager/internal"
)

// Provider resolves secret values referenced by configuration keys.
type Provider interface {
	Get(key string) (string, error)
}

// Configuration reads values from the environment, falling back to the secure Provider
// when a key is configured as "<KEY>_SECURE".
type Configuration struct {
	provider Provider
}

// Load reads the env filename and loads it into ENV for this process.
func Load(filename string) error {
	if filename == "" {
		return nil
	}

	if err := godotenv.Load(filename); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "loading env var file")
	}

	return nil
}

// New instantiates a new Configuration, provider may be nil.
func New(provider Provider) *Configuration {
	return &Configuration{
		provider: provider,
	}
}

// Get returns the value from environment variable `<key>`. When an environment variable `<key>_SECURE` exists
// the provider is used for getting the value.
func (c *Configuration) Get(key string) (string, error) {
	res := os.Getenv(key)
	valSecret := os.Getenv(key + "_SECURE")

	if valSecret == "" {
		return res, nil
	}

	if c.provider == nil {
		return "", internal.NewErrorf(internal.ErrorCodeInvalidArgument, "no secure provider configured for %s", key)
	}

	valSecretRes, err := c.provider.Get(valSecret)
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "provider.Get")
	}

	return valSecretRes, nil
}

// GetDefault behaves like Get but returns def when the resolved value is empty.
func (c *Configuration) GetDefault(key, def string) (string, error) {
	res, err := c.Get(key)
	if err != nil {
		return "", err
	}

	if res == "" {
		return def, nil
	}

	return res, nil
}
