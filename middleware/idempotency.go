package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"homestay-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader = "X-Idempotency-Key"
	idempotencyKeyPrefix = "idempotency:booking:"
	processingTTL        = 60 * time.Second
)

type idempotencyStatus string

const (
	statusProcessing idempotencyStatus = "processing"
	statusCompleted  idempotencyStatus = "completed"
)

type idempotencyRecord struct {
	Status       idempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code"`
	ResponseBody string            `json:"response_body"`
}

// RedisClient is the subset of *redis.Client the middleware needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Idempotency replays the stored response when a client retries a request
// with the same X-Idempotency-Key. Requests without the header pass through.
// Only successful responses are kept, so a failed create can be retried.
// Redis errors fail open.
func Idempotency(rdb RedisClient, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		owner := ""
		if p, ok := PrincipalFrom(c); ok {
			owner = strconv.FormatUint(uint64(p.UserID), 10)
		}
		redisKey := idempotencyKeyPrefix + owner + ":" + key
		hash := requestHash(c.Request.Method, c.Request.URL.Path, owner, body)
		ctx := c.Request.Context()

		existing, err := loadRecord(ctx, rdb, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Warn("idempotency lookup failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if existing == nil {
			data, _ := json.Marshal(idempotencyRecord{Status: statusProcessing, RequestHash: hash})
			won, err := rdb.SetNX(ctx, redisKey, data, processingTTL).Result()
			if err != nil {
				log.Warn("idempotency reserve failed, continuing without it", zap.Error(err))
				c.Next()
				return
			}
			if !won {
				// lost the race to a concurrent retry
				existing, _ = loadRecord(ctx, rdb, redisKey)
				if existing == nil {
					existing = &idempotencyRecord{Status: statusProcessing, RequestHash: hash}
				}
			}
		}

		if existing != nil {
			switch {
			case existing.RequestHash != hash:
				utils.JSONError(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED", "idempotency key already used with a different request")
			case existing.Status == statusProcessing:
				utils.JSONError(c, http.StatusConflict, "REQUEST_IN_PROGRESS", "a request with this idempotency key is still being processed")
			default:
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
				c.Abort()
			}
			return
		}

		rw := &capturingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rw
		c.Next()

		status := rw.Status()
		if status < 200 || status >= 300 {
			if err := rdb.Del(ctx, redisKey).Err(); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
			}
			return
		}
		data, _ := json.Marshal(idempotencyRecord{
			Status:       statusCompleted,
			RequestHash:  hash,
			ResponseCode: status,
			ResponseBody: rw.body.String(),
		})
		if err := rdb.Set(ctx, redisKey, data, ttl).Err(); err != nil {
			log.Warn("failed to store idempotent response", zap.Error(err))
		}
	}
}

type capturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func requestHash(method, path, owner string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write([]byte(owner))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func loadRecord(ctx context.Context, rdb RedisClient, key string) (*idempotencyRecord, error) {
	raw, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var rec idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
