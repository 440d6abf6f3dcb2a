package secret

import (
	"context"
	"sync"

	"github.com/mehmetcc/shelfguard/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Provider resolves the JWT signing secret. Resolution order: inline config
// value, then the process-wide cache, then one remote fetch. The cache is
// written once after the first successful fetch; rotation is not handled, a
// changed secret takes effect only on restart.
type Provider interface {
	GetSecret(ctx context.Context) ([]byte, error)
}

type provider struct {
	inline []byte
	name   string
	store  SecretStore
	logger *zap.Logger

	mu     sync.RWMutex
	cached []byte
	group  singleflight.Group
}

func NewProvider(cfg *config.SecretConfig, store SecretStore, logger *zap.Logger) Provider {
	p := &provider{
		name:   cfg.SecretName,
		store:  store,
		logger: logger,
	}
	if cfg.InlineSecret != "" {
		p.inline = []byte(cfg.InlineSecret)
	}
	return p
}

func (p *provider) GetSecret(ctx context.Context) ([]byte, error) {
	if p.inline != nil {
		return p.inline, nil
	}

	p.mu.RLock()
	cached := p.cached
	p.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	if p.store == nil || p.name == "" {
		return nil, ErrSecretUnavailable
	}

	// Concurrent first-access misses collapse into one remote call.
	v, err, _ := p.group.Do(p.name, func() (any, error) {
		p.mu.RLock()
		cached := p.cached
		p.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		// The fetch is shared by every collapsed caller, so it must not die
		// with whichever request happened to start it. The store's client
		// timeout still bounds it.
		fetched, err := p.store.FetchSecret(context.WithoutCancel(ctx), p.name)
		if err != nil {
			p.logger.Error("failed to fetch signing secret", zap.String("name", p.name), zap.Error(err))
			return nil, ErrSecretUnavailable
		}

		p.mu.Lock()
		p.cached = fetched
		p.mu.Unlock()
		p.logger.Info("signing secret resolved from parameter store", zap.String("name", p.name))
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
