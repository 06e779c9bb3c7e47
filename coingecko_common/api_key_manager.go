package coingecko_common

import (
	"sync"
	"time"

	"github.com/status-im/market-dashboard/config"
)

// KeyType defines the API key type
type KeyType int

const (
	// NoKey means no API key is available
	NoKey KeyType = iota
	// ProKey means using a Pro API key
	ProKey
	// DemoKey means using a demo API key
	DemoKey
)

func (t KeyType) String() string {
	switch t {
	case ProKey:
		return "pro"
	case DemoKey:
		return "demo"
	case NoKey:
		return "none"
	default:
		return "unknown"
	}
}

// DefaultKeyBackoff is how long a failed key is skipped
const DefaultKeyBackoff = 5 * time.Minute

// APIKey represents an API key with its type
type APIKey struct {
	Key  string
	Type KeyType
}

// Masked returns the key with all but the last four characters hidden
func (k APIKey) Masked() string {
	if len(k.Key) <= 4 {
		return "****"
	}
	return "****" + k.Key[len(k.Key)-4:]
}

// IAPIKeyManager defines the interface for API key management
type IAPIKeyManager interface {
	// GetAvailableKeys returns the keys worth trying, in order:
	// pro keys not in backoff (a single pro key is always included),
	// demo keys not in backoff, and finally the "no key" entry.
	GetAvailableKeys() []APIKey

	// MarkKeyAsFailed puts a key in backoff
	MarkKeyAsFailed(key string)
}

// APIKeyManager implements IAPIKeyManager for CoinGecko
type APIKeyManager struct {
	apiTokens   *config.APITokens
	lastFailed  map[string]time.Time
	backoffTime time.Duration
	now         func() time.Time
	mu          sync.RWMutex
}

// NewAPIKeyManager creates a new API key manager
func NewAPIKeyManager(apiTokens *config.APITokens) *APIKeyManager {
	return &APIKeyManager{
		apiTokens:   apiTokens,
		lastFailed:  make(map[string]time.Time),
		backoffTime: DefaultKeyBackoff,
		now:         time.Now,
	}
}

func (m *APIKeyManager) isKeyInBackoff(key string) bool {
	if key == "" {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if lastFailTime, exists := m.lastFailed[key]; exists {
		return m.now().Sub(lastFailTime) < m.backoffTime
	}
	return false
}

func (m *APIKeyManager) keysOfType(keyType KeyType) []string {
	if m.apiTokens == nil {
		return nil
	}

	switch keyType {
	case ProKey:
		return m.apiTokens.Tokens
	case DemoKey:
		return m.apiTokens.DemoTokens
	}
	return nil
}

// GetAvailableKeys returns a list of available API keys
func (m *APIKeyManager) GetAvailableKeys() []APIKey {
	var availableKeys []APIKey

	proKeys := m.keysOfType(ProKey)
	for _, key := range proKeys {
		if len(proKeys) == 1 || !m.isKeyInBackoff(key) {
			availableKeys = append(availableKeys, APIKey{Key: key, Type: ProKey})
		}
	}

	for _, key := range m.keysOfType(DemoKey) {
		if !m.isKeyInBackoff(key) {
			availableKeys = append(availableKeys, APIKey{Key: key, Type: DemoKey})
		}
	}

	return append(availableKeys, APIKey{Key: "", Type: NoKey})
}

// MarkKeyAsFailed marks a key as non-working for some time
func (m *APIKeyManager) MarkKeyAsFailed(key string) {
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFailed[key] = m.now()
	log.Warnf("APIKeyManager: Marked key %s as failed for %v", APIKey{Key: key}.Masked(), m.backoffTime)
}
