package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"

	"group-task-organizer/domain/ports"
	"group-task-organizer/pkg/logger"
	"group-task-organizer/pkg/utils"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255

	// pendingKeyTTL จำกัดอายุ key ที่จองไว้ ถ้า process ตายก่อน Complete/Release
	// client retry ได้หลังจากนี้ ไม่ต้องรอ TTL เต็ม
	pendingKeyTTL = time.Minute
)

// IdempotencyMiddleware ป้องกัน POST ซ้ำเมื่อ client ส่ง Idempotency-Key มา
// response 2xx/4xx จะถูกเก็บไว้และ replay ให้ request ถัดไปที่ใช้ key เดียวกัน
func IdempotencyMiddleware(store ports.IdempotencyStore, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil || c.Method() != fiber.MethodPost {
			return c.Next()
		}

		rawKey := c.Get(IdempotencyKeyHeader)
		if rawKey == "" {
			return c.Next()
		}
		if len(rawKey) > maxIdempotencyKeyLength {
			return utils.BadRequestResponse(c, "Idempotency-Key is too long")
		}

		ctx := c.UserContext()
		key := fiberutils.CopyString(c.Method() + " " + c.Path() + " " + rawKey)

		stored, err := store.Begin(ctx, key, pendingTTL(ttl))
		switch {
		case errors.Is(err, ports.ErrRequestInFlight):
			logger.WarnContext(ctx, "Duplicate request in flight", "idempotency_key", rawKey)
			return utils.ConflictResponse(c, "A request with this Idempotency-Key is already in progress")
		case err != nil:
			// store ล่มก็ยังให้ request ผ่านไปได้
			logger.ErrorContext(ctx, "Idempotency store unavailable", "error", err)
			return c.Next()
		case stored != nil:
			logger.InfoContext(ctx, "Replaying stored response", "idempotency_key", rawKey, "status", stored.Status)
			c.Set(IdempotentReplayedHeader, "true")
			if stored.ContentType != "" {
				c.Set(fiber.HeaderContentType, stored.ContentType)
			}
			return c.Status(stored.Status).Send(stored.Body)
		}

		settled := false
		defer func() {
			// handler panic: ปล่อย key ให้ retry ได้
			if !settled {
				release(c, store, key)
			}
		}()

		if err := c.Next(); err != nil {
			settled = true
			release(c, store, key)
			return err
		}
		settled = true

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			release(c, store, key)
			return nil
		}

		resp := &ports.StoredResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Complete(ctx, key, resp, ttl); err != nil {
			logger.ErrorContext(ctx, "Failed to store idempotent response", "error", err)
		}
		return nil
	}
}

func pendingTTL(ttl time.Duration) time.Duration {
	if ttl < pendingKeyTTL {
		return ttl
	}
	return pendingKeyTTL
}

func release(c *fiber.Ctx, store ports.IdempotencyStore, key string) {
	if err := store.Release(c.UserContext(), key); err != nil {
		logger.ErrorContext(c.UserContext(), "Failed to release idempotency key", "error", err)
	}
}
