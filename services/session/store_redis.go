package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"tableorder/models"

	"github.com/go-redis/redis/v8"
)

const (
	sessionPrefix = "session:"
	cartPrefix    = "cart:"
	orderPrefix   = "order:"

	maxCASRetries = 5
	casBaseDelay  = 2 * time.Millisecond
	casMaxDelay   = 50 * time.Millisecond
)

func sessionKey(id string) string { return sessionPrefix + id }
func cartKey(id string) string    { return cartPrefix + id }
func orderKey(id string) string   { return orderPrefix + id }

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps JSON values under session:<id>, cart:<id> and order:<id>.
// Updates use WATCH on the session and cart keys and retry when another
// writer commits first.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
	orderTTL   time.Duration
	backoff    func(attempt int) time.Duration
}

func NewRedisStore(client *redis.Client, sessionTTL, orderTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, sessionTTL: sessionTTL, orderTTL: orderTTL, backoff: casBackoff}
}

// casBackoff doubles from casBaseDelay up to casMaxDelay and picks a random
// point in the upper half so colliding writers spread out.
func casBackoff(attempt int) time.Duration {
	d := casMaxDelay
	if attempt < 16 {
		if shifted := casBaseDelay << attempt; shifted < d {
			d = shifted
		}
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// getJSON decodes key into dst. found is false when the key does not exist.
func getJSON(ctx context.Context, g getter, key string, dst interface{}) (found bool, err error) {
	data, err := g.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, unavailable(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, unavailable(fmt.Errorf("corrupt value at %s: %w", key, err))
	}
	return true, nil
}

func (s *RedisStore) load(ctx context.Context, g getter, sessionID string) (models.Session, models.Cart, error) {
	var sess models.Session
	found, err := getJSON(ctx, g, sessionKey(sessionID), &sess)
	if err != nil {
		return models.Session{}, nil, err
	}
	if !found {
		return models.Session{}, nil, ErrSessionNotFound
	}
	cart := models.Cart{}
	if _, err := getJSON(ctx, g, cartKey(sessionID), &cart); err != nil {
		return models.Session{}, nil, err
	}
	return sess, cart, nil
}

func (s *RedisStore) CreateSession(ctx context.Context, sess models.Session) error {
	sessData, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sess.SessionID), sessData, s.sessionTTL)
		pipe.Set(ctx, cartKey(sess.SessionID), "[]", s.sessionTTL)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	var sess models.Session
	found, err := getJSON(ctx, s.client, sessionKey(sessionID), &sess)
	if err != nil {
		return models.Session{}, err
	}
	if !found {
		return models.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *RedisStore) GetCart(ctx context.Context, sessionID string) (models.Cart, error) {
	cart := models.Cart{}
	found, err := getJSON(ctx, s.client, cartKey(sessionID), &cart)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return cart, nil
}

// watch runs txf under WATCH on the session's keys. Errors raised by txf
// itself are returned untouched; a lost race is retried.
func (s *RedisStore) watch(ctx context.Context, sessionID string, txf func(tx *redis.Tx) error) error {
	var abort error
	guarded := func(tx *redis.Tx) error {
		abort = nil
		err := txf(tx)
		if err != nil && !errors.Is(err, redis.TxFailedErr) {
			abort = err
		}
		return err
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		if attempt > 0 && s.backoff != nil {
			timer := time.NewTimer(s.backoff(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err := s.client.Watch(ctx, guarded, sessionKey(sessionID), cartKey(sessionID))
		switch {
		case err == nil:
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case abort != nil:
			return abort
		default:
			return unavailable(err)
		}
	}
	return ErrConcurrentUpdate
}

func (s *RedisStore) UpdateCart(ctx context.Context, sessionID string, fn CartMutation) (models.Cart, error) {
	var result models.Cart
	err := s.watch(ctx, sessionID, func(tx *redis.Tx) error {
		sess, cart, err := s.load(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		next, err := fn(sess, cart)
		if err != nil {
			return err
		}
		if next == nil {
			next = models.Cart{}
		}
		data, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cartKey(sessionID), data, s.sessionTTL)
			pipe.Expire(ctx, sessionKey(sessionID), s.sessionTTL)
			return nil
		})
		if err == nil {
			result = next
		}
		return s.pipelineErr(err)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RedisStore) UpdateSession(ctx context.Context, sessionID string, fn SessionMutation) (models.Session, error) {
	var result models.Session
	err := s.watch(ctx, sessionID, func(tx *redis.Tx) error {
		sess, cart, err := s.load(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		order, err := fn(&sess, cart)
		if err != nil {
			return err
		}
		sessData, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		var orderData []byte
		if order != nil {
			if orderData, err = json.Marshal(order); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sessionKey(sessionID), sessData, s.sessionTTL)
			pipe.Expire(ctx, cartKey(sessionID), s.sessionTTL)
			if order != nil {
				pipe.Set(ctx, orderKey(order.OrderID), orderData, s.orderTTL)
			}
			return nil
		})
		if err == nil {
			result = sess
		}
		return s.pipelineErr(err)
	})
	if err != nil {
		return models.Session{}, err
	}
	return result, nil
}

// pipelineErr lets a lost WATCH race through to the retry loop and wraps the rest.
func (s *RedisStore) pipelineErr(err error) error {
	if err == nil || errors.Is(err, redis.TxFailedErr) {
		return err
	}
	return unavailable(err)
}

func (s *RedisStore) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	found, err := getJSON(ctx, s.client, orderKey(orderID), &order)
	if err != nil {
		return models.Order{}, err
	}
	if !found {
		return models.Order{}, ErrOrderNotFound
	}
	return order, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID), cartKey(sessionID)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}
