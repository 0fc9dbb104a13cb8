package bank

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizbot/internal/domain"
)

// Loader fetches the question bank from a backing source (file, Postgres).
type Loader interface {
	LoadBank(ctx context.Context) (domain.Bank, error)
}

// FileLoader reads the bank from a JSON file on each load.
type FileLoader struct {
	Path        string
	Interactive bool
}

func (l FileLoader) LoadBank(_ context.Context) (domain.Bank, error) {
	return Load(l.Path, l.Interactive)
}

// StaticLoader serves a pre-built bank (useful for tests/demos).
type StaticLoader struct {
	bank domain.Bank
}

func NewStaticLoader(b domain.Bank) *StaticLoader {
	return &StaticLoader{bank: b}
}

func (l *StaticLoader) LoadBank(_ context.Context) (domain.Bank, error) {
	if l.bank.Len() == 0 {
		return domain.Bank{}, domain.ErrBankEmpty
	}
	return l.bank, nil
}

// CachedRepository caches the loaded bank with a TTL to avoid repeated
// source hits, deduplicating concurrent loads through singleflight.
type CachedRepository struct {
	loader Loader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	bank      domain.Bank
	expiresAt time.Time
}

func NewCachedRepository(loader Loader, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CachedRepository) Bank(ctx context.Context) (domain.Bank, error) {
	now := r.clock()

	r.mu.RLock()
	if r.bank.Len() > 0 && r.expiresAt.After(now) {
		b := r.bank
		r.mu.RUnlock()
		return b, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.bank.Len() > 0 && r.expiresAt.After(now) {
			b := r.bank
			r.mu.RUnlock()
			return b, nil
		}
		r.mu.RUnlock()

		b, err := r.loader.LoadBank(ctx)
		if err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.bank = b
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *CachedRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
