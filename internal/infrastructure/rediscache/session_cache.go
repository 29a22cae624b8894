// Package rediscache implementa el cache de snapshots de sesión sobre Redis.
// El cache es una optimización: si Redis no está disponible el resolver
// funciona igual consultando la DB en cada request.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Carnet-api/internal/application/auth"
	"github.com/jhoicas/Carnet-api/pkg/config"
	"github.com/jhoicas/Carnet-api/pkg/logger"
)

var _ auth.SessionCache = (*SessionCache)(nil)

// SessionCache guarda snapshots serializados en JSON bajo session:<userID>
// con TTL corto. Evict borra la clave; un miss siempre resuelve contra la DB.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New conecta a Redis y devuelve el cache, o nil si no hay servidor
// configurado o el ping falla. Los llamadores degradan a "sin cache".
func New(cfg config.RedisConfig, log *logger.Logger) *SessionCache {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis no disponible, cache de sesión deshabilitado")
		return nil
	}
	ttl := time.Duration(cfg.TTLSecs) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SessionCache{client: client, ttl: ttl, log: log}
}

// Get devuelve el snapshot cacheado del usuario, si hay uno vigente.
func (c *SessionCache) Get(ctx context.Context, userID string) (*auth.Snapshot, bool) {
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("lectura de cache de sesión fallida")
		}
		return nil, false
	}
	var snap auth.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// Set guarda el snapshot con el TTL configurado. Un fallo solo se loguea:
// perder el cache nunca es un error de la operación primaria.
func (c *SessionCache) Set(ctx context.Context, userID string, snap *auth.Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(userID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("escritura de cache de sesión fallida")
	}
}

// Evict borra el snapshot del usuario. Se invoca en refresh, logout y en toda
// mutación de rol o bloqueo sobre ese usuario.
func (c *SessionCache) Evict(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		c.log.Warn().Err(err).Msg("eviction de cache de sesión fallida")
	}
}

func key(userID string) string {
	return "session:" + userID
}
