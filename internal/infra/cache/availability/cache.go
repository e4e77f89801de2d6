// Package availability кэширует рассчитанную доступность слотов филиала на дату в Redis
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TableBookingService/internal/domain"
)

const (
	keyPrefix = "availability"

	// minVersionTTL время жизни счетчика версий даты; всегда больше TTL данных
	minVersionTTL = 24 * time.Hour
)

// Metrics счетчики обращений к кэшу
type Metrics interface {
	IncAvailabilityCache(result string)
}

// Cache кэш доступности. Нулевой указатель или nil-клиент означают выключенный кэш.
//
// У каждой пары (филиал, дата) есть счетчик версий. Данные лежат под ключом
// текущей версии, Invalidate увеличивает счетчик. Запись, рассчитанная до
// инвалидации, попадает под старую версию и больше не читается.
type Cache struct {
	client     *redis.Client
	ttl        time.Duration
	versionTTL time.Duration
	metrics    Metrics
}

// NewCache создает кэш. client = nil выключает кэширование.
func NewCache(client *redis.Client, ttl time.Duration, metrics Metrics) *Cache {
	return &Cache{
		client:     client,
		ttl:        ttl,
		versionTTL: max(minVersionTTL, 2*ttl),
		metrics:    metrics,
	}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// VersionKey ключ счетчика версий филиала на дату
func VersionKey(branchID int64, date time.Time) string {
	return fmt.Sprintf("%s:ver:%d:%s", keyPrefix, branchID, date.Format(domain.DateFormat))
}

// Key ключ данных филиала на дату для версии
func Key(branchID int64, date time.Time, version int64) string {
	return fmt.Sprintf("%s:%d:%s:v%d", keyPrefix, branchID, date.Format(domain.DateFormat), version)
}

// Get возвращает доступность из кэша и текущую версию даты.
// Версию нужно передать в Set после расчета. false - промах или кэш выключен.
func (c *Cache) Get(ctx context.Context, branchID int64, date time.Time) ([]domain.SlotAvailability, int64, bool) {
	if !c.enabled() {
		return nil, 0, false
	}

	version, err := c.client.Get(ctx, VersionKey(branchID, date)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.observe("error")
		return nil, 0, false
	}

	val, err := c.client.Get(ctx, Key(branchID, date, version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.observe("miss")
		} else {
			c.observe("error")
		}
		return nil, version, false
	}

	var list []domain.SlotAvailability
	if err := json.Unmarshal(val, &list); err != nil {
		c.observe("error")
		return nil, version, false
	}

	c.observe("hit")
	return list, version, true
}

// Set сохраняет доступность с TTL под версией, полученной из Get до расчета
func (c *Cache) Set(ctx context.Context, branchID int64, date time.Time, version int64, list []domain.SlotAvailability) error {
	if !c.enabled() {
		return nil
	}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}

	return c.client.Set(ctx, Key(branchID, date, version), data, c.ttl).Err()
}

// Invalidate переводит указанные даты филиала на новую версию
func (c *Cache) Invalidate(ctx context.Context, branchID int64, dates ...time.Time) error {
	if !c.enabled() || len(dates) == 0 {
		return nil
	}

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range dates {
			key := VersionKey(branchID, d)
			pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, c.versionTTL)
		}
		return nil
	})
	return err
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.IncAvailabilityCache(result)
	}
}
