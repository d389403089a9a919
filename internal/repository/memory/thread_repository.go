package memory

import (
	"time"

	"lexi-legal-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// ThreadRepository holds active conversation state in memory. Entries
// expire an hour after their last save, which caps how long an
// abandoned thread keeps its history resident.
type ThreadRepository struct {
	cache *cache.Cache
}

func NewThreadRepository() *ThreadRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ThreadRepository{
		cache: c,
	}
}

func (r *ThreadRepository) Save(thread *store.Thread) {
	r.cache.Set(thread.ID, thread, cache.DefaultExpiration)
}

func (r *ThreadRepository) Get(threadID string) (*store.Thread, bool) {
	if x, found := r.cache.Get(threadID); found {
		return x.(*store.Thread), true
	}
	return nil, false
}

func (r *ThreadRepository) Delete(threadID string) {
	r.cache.Delete(threadID)
}
