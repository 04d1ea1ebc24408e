package vault

import (
	"path"
	"strings"

	"github.com/hashicorp/vault/api"

	"github.com/sanLimbu/task-manager/internal"
)

// Provider reads secrets stored in a Vault KV v2 engine mounted at "secret/".
type Provider struct {
	path   string
	client *api.Logical
}

// New instantiates the Vault client, path is prefixed to every secret lookup.
func New(token, addr, path string) (*Provider, error) {
	config := api.DefaultConfig()
	config.Address = addr

	client, err := api.NewClient(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "api.NewClient")
	}

	client.SetToken(token)

	return &Provider{
		path:   path,
		client: client.Logical(),
	}, nil
}

// Get retrieves the value indicated by the reference, using the format "path:key".
func (p *Provider) Get(v string) (string, error) {
	secretPath, key, ok := strings.Cut(v, ":")
	if !ok || key == "" {
		return "", internal.NewErrorf(internal.ErrorCodeInvalidArgument, "missing key value in %q", v)
	}

	res, err := p.client.Read(path.Join("secret/data", p.path, secretPath))
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "reading")
	}

	if res == nil {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "secret %q not found", secretPath)
	}

	data, ok := res.Data["data"].(map[string]interface{})
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeUnknown, "invalid data in secret %q", secretPath)
	}

	secret, ok := data[key].(string)
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "key %q not found in secret %q", key, secretPath)
	}

	return secret, nil
}
