package service

import (
	"strings"
	"sync"
	"time"

	"orderbook_go/internal/domain"
)

// CatalogService serves token metadata (decimals, symbols) to the
// pricing path. Reads hit an in-memory map; the backing repository is
// consulted on a miss and on seeding.
type CatalogService struct {
	mu    sync.RWMutex
	repo  domain.TokenRepository
	cache map[string]*domain.TokenInfo // keyed by lowercase address
}

// NewCatalogService creates a catalog backed by the given repository.
// The repository may be nil for a purely in-memory catalog (tests).
func NewCatalogService(repo domain.TokenRepository) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: make(map[string]*domain.TokenInfo),
	}
}

// Seed registers token metadata, persisting it when a repository is
// configured. Existing entries for the same address are replaced.
func (s *CatalogService) Seed(tokens []domain.TokenInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range tokens {
		token := tokens[i]
		token.UpdatedAt = time.Now()
		if s.repo != nil {
			if err := s.repo.UpsertToken(&token); err != nil {
				return err
			}
		}
		s.cache[strings.ToLower(token.Address)] = &token
	}
	return nil
}

// Resolve returns metadata for a token address, or ErrUnknownToken.
func (s *CatalogService) Resolve(address string) (*domain.TokenInfo, error) {
	key := strings.ToLower(address)

	s.mu.RLock()
	token, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return token, nil
	}

	if s.repo != nil {
		stored, err := s.repo.GetToken(address)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			s.mu.Lock()
			s.cache[key] = stored
			s.mu.Unlock()
			return stored, nil
		}
	}

	return nil, domain.ErrUnknownToken
}

// Pair builds a TradingPair from two token addresses.
func (s *CatalogService) Pair(baseAddress, quoteAddress string) (domain.TradingPair, error) {
	base, err := s.Resolve(baseAddress)
	if err != nil {
		return domain.TradingPair{}, err
	}
	quote, err := s.Resolve(quoteAddress)
	if err != nil {
		return domain.TradingPair{}, err
	}

	pair := domain.TradingPair{Base: *base, Quote: *quote}
	if err := pair.Validate(); err != nil {
		return domain.TradingPair{}, err
	}
	return pair, nil
}
