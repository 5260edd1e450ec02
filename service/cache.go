// file: service/cache.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-bankist/logger"
	"go-bankist/model"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ICacheClient is the subset of *redis.Client the statement cache uses.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// The day is part of the key so relative dates never outlive midnight.
// The movement count ties an entry to the snapshot it was built from, so
// a statement stored late by an older request never answers a newer one.
func statementKey(acc model.Account, sorted bool, day time.Time) string {
	return fmt.Sprintf("statement:%s:%t:%s:%d", acc.Username, sorted, day.Format("2006-01-02"), len(acc.Movements))
}

// cached reads a statement from Redis. Read and decode failures count as
// a miss.
func (s *StatementService) cached(ctx context.Context, key string) (model.Statement, bool) {
	var st model.Statement
	raw, err := s.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return st, false
	}
	log := logger.Log.WithField("cache_key", key)
	if err != nil {
		log.WithError(err).Warn("Statement cache read failed")
		return st, false
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		log.Warn("Discarding undecodable cached statement")
		return st, false
	}
	return st, true
}

func (s *StatementService) store(ctx context.Context, key string, st model.Statement) {
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"username":  st.Username,
			"cache_key": key,
		}).Warn("Statement cache write failed")
		return
	}

	s.mu.Lock()
	if s.stored[st.Username] == nil {
		s.stored[st.Username] = make(map[string]struct{})
	}
	s.stored[st.Username][key] = struct{}{}
	s.mu.Unlock()
}

// Invalidate drops every statement of username this service cached.
func (s *StatementService) Invalidate(ctx context.Context, username string) {
	if s.redisClient == nil {
		return
	}
	s.mu.Lock()
	keys := make([]string, 0, len(s.stored[username]))
	for k := range s.stored[username] {
		keys = append(keys, k)
	}
	delete(s.stored, username)
	s.mu.Unlock()

	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).WithField("username", username).Warn("Statement cache invalidation failed")
	}
}
