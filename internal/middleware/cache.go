package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"ecocredit/internal/config"
)

// bodyRecorder tees the response body into a buffer while streaming it
// to the client, so a successful response can be stored afterwards.
// Capture stops past limit; an over-limit response is never cached.
type bodyRecorder struct {
	http.ResponseWriter
	status  int
	buf     bytes.Buffer
	written int64
	limit   int64
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.status = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	if br.written <= br.limit {
		br.buf.Write(b)
	}
	br.written += int64(len(b))
	return br.ResponseWriter.Write(b)
}

// cacheKey hashes the route and query string under the configured
// prefix. Keeping the prefix in cleartext lets InvalidateCache drop
// every variant with one prefix scan.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// Payload layout: [4 bytes status][content type][0x00][body].
func encodePayload(status int, contentType string, body []byte) []byte {
	out := make([]byte, 0, 4+len(contentType)+1+len(body))
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(status))
	out = append(out, hdr[:]...)
	out = append(out, contentType...)
	out = append(out, 0)
	return append(out, body...)
}

func decodePayload(bs []byte) (status int, contentType string, body []byte, ok bool) {
	if len(bs) < 5 {
		return 0, "", nil, false
	}
	sep := bytes.IndexByte(bs[4:], 0)
	if sep < 0 {
		return 0, "", nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[:4]))
	contentType = string(bs[4 : 4+sep])
	body = bs[4+sep+1:]
	return status, contentType, body, true
}

// NewRedisCache serves GET responses from Redis when a cached copy
// exists and records cache misses for the next caller. Only 200
// responses are stored. With caching disabled or no Redis client the
// middleware is a pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, contentType, body, ok := decodePayload(bs); ok {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(status, contentType, body)
				}
				// Unreadable payload, likely written by an older build.
				_ = rdb.Del(context.Background(), key).Err()
			}

			rec := &bodyRecorder{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && rec.written <= rec.limit {
				contentType := strings.TrimSpace(c.Response().Header().Get(echo.HeaderContentType))
				payload := encodePayload(rec.status, contentType, rec.buf.Bytes())
				_ = rdb.SetEx(context.Background(), key, payload, cfg.TTL).Err()
			}
			return nil
		}
	}
}
