package ratings

import (
	"context"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/convergence/internal/datasource"
	"github.com/yourusername/convergence/internal/models"
)

// CachedProvider wraps a RatingProvider with a bounded-TTL cache so a
// generation run fetches each sport's ratings at most once. A provider
// failure returns nil and degrades the dependent signals to neutral instead
// of failing the matchup.
type CachedProvider struct {
	provider datasource.RatingProvider
	cache    *cache.Cache
	ttl      time.Duration
	logger   *logrus.Logger

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
	onHit     func()
	onMiss    func()
}

// NewCachedProvider creates a TTL-cached rating provider
func NewCachedProvider(provider datasource.RatingProvider, ttl time.Duration, logger *logrus.Logger) *CachedProvider {
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedProvider{
		provider: provider,
		cache:    cache.New(ttl, ttl*2),
		ttl:      ttl,
		logger:   logger,
	}
}

// Current returns the sport's rating snapshot, from cache when fresh. Returns
// nil (not an error) on provider failure; the miss is logged and counted.
func (p *CachedProvider) Current(ctx context.Context, sport models.Sport) *models.RatingSnapshot {
	key := string(sport)

	p.mu.Lock()
	if cached, found := p.cache.Get(key); found {
		p.hitCount++
		onHit := p.onHit
		p.mu.Unlock()
		if onHit != nil {
			onHit()
		}
		if snapshot, ok := cached.(*models.RatingSnapshot); ok {
			return snapshot
		}
		return nil
	}
	p.missCount++
	onMiss := p.onMiss
	p.mu.Unlock()
	if onMiss != nil {
		onMiss()
	}

	snapshot, err := p.provider.CurrentRatings(ctx, sport)
	if err != nil {
		p.logger.WithError(err).WithField("sport", sport).Warn("Rating provider failed, degrading signals to neutral")
		return nil
	}

	p.mu.Lock()
	p.cache.Set(key, snapshot, p.ttl)
	p.mu.Unlock()
	return snapshot
}

// Instrument registers callbacks invoked on every cache hit and miss. Used to
// feed external counters without coupling this package to them.
func (p *CachedProvider) Instrument(onHit, onMiss func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onHit = onHit
	p.onMiss = onMiss
}

// Invalidate drops a sport's cached snapshot
func (p *CachedProvider) Invalidate(sport models.Sport) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Delete(string(sport))
}

// Stats returns cache hit/miss counts and hit ratio
func (p *CachedProvider) Stats() (hits, misses uint64, ratio float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	hits = p.hitCount
	misses = p.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}
