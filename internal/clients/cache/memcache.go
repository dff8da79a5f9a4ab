package cache

import (
	"github.com/pkg/errors"

	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"

	"github.com/bradfitz/gomemcache/memcache"
)

const summaryKeyPrefix = "summary:"

type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(day string) string {
	return summaryKeyPrefix + day
}

func (mc *MemcacheClient) CacheSummary(day string, payload []byte) error {
	logger.Info("cache summary", zap.String("day", day))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(day),
		Value: payload,
	})
}

func (mc *MemcacheClient) GetSummary(day string) ([]byte, error) {
	item, err := mc.client.Get(formatKey(day))
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (mc *MemcacheClient) InvalidateSummary(day string) error {
	logger.Info("invalidate summary cache", zap.String("day", day))

	err := mc.client.Delete(formatKey(day))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}
	return nil
}
