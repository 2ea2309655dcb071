// Package cache implementa el caché opcional de reportes sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tu-usuario/editorial-stock/internal/application/report"
	"github.com/tu-usuario/editorial-stock/pkg/logger"
)

var _ report.Cache = (*ReportCache)(nil)

// NewClient construye el cliente Redis desde una URL y verifica la conexión.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ReportCache guarda reportes serializados en JSON con una vigencia fija.
// Un fallo de Redis nunca tumba el reporte: se loguea y se sigue sin caché.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewReportCache construye el caché con la vigencia dada.
func NewReportCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ReportCache {
	return &ReportCache{client: client, ttl: ttl, log: log}
}

// Get deserializa el valor en v y devuelve true si hubo hit.
func (c *ReportCache) Get(ctx context.Context, key string, v any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché falló")
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta")
		return false
	}
	return true
}

// Set serializa y guarda el valor con el TTL del caché.
func (c *ReportCache) Set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo serializar para el caché")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché falló")
	}
}
