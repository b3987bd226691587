package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/chartlabels/pkg/observability"
)

type instrumented struct {
	Cache
}

// Instrument reports every Get and Set of c to the registered cache hooks.
// The key type passed to the hooks is the key prefix up to the first colon.
func Instrument(c Cache) Cache {
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		return data, ok, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, ok, nil
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// keyType returns the segment before the hash, skipping any scope prefix:
// "v1.0:artifact:ab12" is an "artifact" key.
func keyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 {
		return key
	}
	key = key[:i]
	return key[strings.LastIndexByte(key, ':')+1:]
}
