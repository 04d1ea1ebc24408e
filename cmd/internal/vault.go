package internal

import (
	"os"

	"github.com/sanLimbu/task-manager/internal"
	"github.com/sanLimbu/task-manager/internal/envvar"
	"github.com/sanLimbu/task-manager/internal/envvar/vault"
)

// NewVaultProvider instantiates the Vault client using configuration defined in environment variables.
// It returns a nil Provider when VAULT_ADDRESS is not set.
func NewVaultProvider() (envvar.Provider, error) {
	vaultAddress := os.Getenv("VAULT_ADDRESS")
	if vaultAddress == "" {
		return nil, nil
	}

	vaultPath := os.Getenv("VAULT_PATH")
	vaultToken := os.Getenv("VAULT_TOKEN")

	provider, err := vault.New(vaultToken, vaultAddress, vaultPath)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "vault.New")
	}

	return provider, nil
}
