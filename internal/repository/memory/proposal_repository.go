package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/viv500/GenesisAI/pkg/store"
)

// ProposalRepository keeps assistant replies until they are applied or expire.
type ProposalRepository struct {
	cache *cache.Cache
}

func NewProposalRepository(ttl time.Duration) *ProposalRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ProposalRepository{
		cache: cache.New(ttl, 5*time.Minute),
	}
}

func (r *ProposalRepository) Save(p *store.Proposal) {
	r.cache.Set(p.ID, p, cache.DefaultExpiration)
}

func (r *ProposalRepository) Get(id string) (*store.Proposal, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*store.Proposal), true
	}
	return nil, false
}

// Take removes and returns the proposal so it is applied at most once.
func (r *ProposalRepository) Take(id string) (*store.Proposal, bool) {
	p, ok := r.Get(id)
	if ok {
		r.cache.Delete(id)
	}
	return p, ok
}
