package domain

import "context"

// Feed defines the interface for the relayer WebSocket collaborator
type Feed interface {
	Connect(ctx context.Context) error
	// Subscribe requests the book for a pair. Superseding calls replace
	// the active subscription; emitted events carry the given epoch.
	Subscribe(baseTokenAddress, quoteTokenAddress string, epoch uint64) error
	IsConnected() bool
	Disconnect()
}

// AssetCatalog resolves a token address to its metadata. Must be able to
// resolve both legs of a pair before any price can be computed.
type AssetCatalog interface {
	Resolve(address string) (*TokenInfo, error)
}

// TokenRepository defines how catalog metadata is persisted
type TokenRepository interface {
	UpsertToken(token *TokenInfo) error
	GetToken(address string) (*TokenInfo, error)
	GetAllTokens() ([]TokenInfo, error)
}
