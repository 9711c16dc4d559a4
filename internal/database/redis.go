package database

import (
	"context"
	"crypto/md5"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ResultCache stores serialized resolution results for the HTTP layer.
type ResultCache interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool)
	AddToChannel(namespace, key string, value []byte, expiry time.Duration)
	Set(ctx context.Context, watchKey string) error
}

type RedisSettings struct {
	DB         int
	DBUser     string
	DBPassword string
	Host       string
	Port       string
	Protocol   int
}

type RedisConnection struct {
	client *goRedis.Client
	ch     chan RedisCache
	mu     sync.Mutex
}

const (
	maxRetries = 2
	poolSize   = 10
	bufferSize = 50
)

type RedisCache struct {
	cacheType  string
	cacheKey   string
	cacheValue []byte
	expiry     time.Duration
}

// Constructor to create an instance of redis respository with connection pool setup
func NewRedisConnection(ctx context.Context, settings RedisSettings) (*RedisConnection, error) {
	redisClient := goRedis.NewClient(&goRedis.Options{
		Addr:     settings.Host + ":" + settings.Port,
		DB:       settings.DB,
		Protocol: settings.Protocol,
		Username: settings.DBUser,
		Password: settings.DBPassword,
		PoolSize: poolSize,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, err
	}
	log.Infof("Connected to Redis - %s", redisClient)
	return &RedisConnection{
		client: redisClient,
		ch:     make(chan RedisCache, bufferSize),
	}, nil
}

func GenerateUUIDFromString(namespace, key string) string {
	hash := md5.Sum([]byte(namespace))
	namespaceUUID := uuid.Must(uuid.FromBytes(hash[:]))
	generatedUUID := uuid.NewMD5(namespaceUUID, []byte(key))
	return generatedUUID.String()
}

// ResultKey is the cache key of one terminal/descriptor pair. The descriptor is
// upper-cased and whitespace-collapsed so equivalent spellings share an entry.
func ResultKey(terminal, descriptor string) string {
	return terminal + "|" + strings.ToUpper(strings.Join(strings.Fields(descriptor), " "))
}

func (r *RedisConnection) AddToChannel(namespace, key string, value []byte, expiry time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case r.ch <- RedisCache{cacheType: namespace, cacheKey: GenerateUUIDFromString(namespace, key), cacheValue: value, expiry: expiry}:
	default:
		log.Warnf("Redis cache channel full, dropping cache entry for key: %s", key)
	}
}

// Set flushes everything buffered by AddToChannel in one WATCH transaction.
func (r *RedisConnection) Set(ctx context.Context, watchKey string) error {
	r.mu.Lock()
	var cacheEntries []RedisCache
drain:
	for {
		select {
		case data := <-r.ch:
			cacheEntries = append(cacheEntries, data)
		default:
			break drain
		}
	}
	r.mu.Unlock()
	if len(cacheEntries) == 0 {
		return nil
	}

	txp := func(tx *goRedis.Tx) error {
		_, err := tx.TxPipelined(ctx, func(pipe goRedis.Pipeliner) error {
			for _, data := range cacheEntries {
				pipe.Set(ctx, data.cacheKey, data.cacheValue, data.expiry)
			}
			return nil
		})
		if err != nil {
			log.Errorf("error in pipeline %v", err.Error())
			return err
		}
		log.Debugf("Background Task: cached %d result(s)", len(cacheEntries))
		return nil
	}

	for i := 0; i < maxRetries; i++ {
		err := r.client.Watch(ctx, txp, GenerateUUIDFromString("watchKey", watchKey))
		if err == nil {
			return nil
		}
		if errors.Is(err, goRedis.TxFailedErr) {
			continue
		}
		return err
	}
	return errors.New("cache flush reached maximum number of retries")
}

func (r *RedisConnection) Get(ctx context.Context, namespace, key string) ([]byte, bool) {
	hashKey := GenerateUUIDFromString(namespace, key)

	storedValue, err := r.client.Get(ctx, hashKey).Bytes()
	if errors.Is(err, goRedis.Nil) {
		log.Debugf("Background Task: %s with key: %s does not exist", namespace, hashKey)
		return nil, false
	} else if err != nil {
		log.Errorf("error getting value %v", err.Error())
		return nil, false
	}
	log.Debugf("Background Task: %s with key: %s exist", namespace, hashKey)
	return storedValue, true
}

func (r *RedisConnection) Close() error {
	return r.client.Close()
}

// NoopCache is used when no Redis host is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, string) ([]byte, bool) { return nil, false }
func (NoopCache) AddToChannel(string, string, []byte, time.Duration) {}
func (NoopCache) Set(context.Context, string) error { return nil }
