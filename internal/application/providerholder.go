package application

import (
	"sync"

	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

// ProviderHolder holds the provider client built at login. It starts empty
// and is filled once the credential has been validated, so the credential
// itself only lives inside the provider's HTTP clients.
type ProviderHolder struct {
	mu       sync.RWMutex
	provider driven.Provider
}

// NewProviderHolder creates a holder. provider may be nil before login.
func NewProviderHolder(provider driven.Provider) *ProviderHolder {
	return &ProviderHolder{provider: provider}
}

// Get returns the current provider, or nil before login.
func (h *ProviderHolder) Get() driven.Provider {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.provider
}

// Replace swaps in a provider built for a newly validated credential.
func (h *ProviderHolder) Replace(provider driven.Provider) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.provider = provider
}
