package cache

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jellydator/ttlcache/v3"

	"github.com/crosslinktech/crosslink-relay/store"
)

const (
	DELIVERY_TTL = time.Hour * 24
)

// DeliveryCache answers "has this delivery id been processed" with a TTL
// cache in front of the durable store. The store is authoritative; the cache
// only short-circuits the hot path.
type DeliveryCache struct {
	scope common.Address
	seen  *ttlcache.Cache[common.Hash, struct{}]
	store *store.TransferStore
}

func NewDeliveryCache(scope common.Address, s *store.TransferStore) *DeliveryCache {
	cache := ttlcache.New(
		ttlcache.WithTTL[common.Hash, struct{}](DELIVERY_TTL),
	)
	go cache.Start()

	return &DeliveryCache{
		scope: scope,
		seen:  cache,
		store: s,
	}
}

func (c *DeliveryCache) Seen(id common.Hash) bool {
	if c.seen.Get(id) != nil {
		return true
	}

	if c.store.IsDelivered(c.scope, id) {
		c.seen.Set(id, struct{}{}, ttlcache.DefaultTTL)
		return true
	}
	return false
}

func (c *DeliveryCache) Record(id common.Hash) error {
	if err := c.store.MarkDelivered(c.scope, id); err != nil {
		return err
	}

	c.seen.Set(id, struct{}{}, ttlcache.DefaultTTL)
	return nil
}

// Forget clears a marker recorded for a credit that did not complete so the
// delivery can be retried.
func (c *DeliveryCache) Forget(id common.Hash) error {
	if err := c.store.UnmarkDelivered(c.scope, id); err != nil {
		return err
	}

	c.seen.Delete(id)
	return nil
}

func (c *DeliveryCache) Stop() {
	c.seen.Stop()
}
