package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ALAAWF2/arabi-rent-home/internal/logging"
)

func setupIdempotentApp(t *testing.T) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	calls := 0
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/wallet/recharge", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"calls": calls})
	})
	return app
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	app := setupIdempotentApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/wallet/recharge", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestIdempotencyReplaysWithoutRecharging(t *testing.T) {
	app := setupIdempotentApp(t)

	send := func() (int, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/wallet/recharge", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "recharge-42")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode, string(body)
	}

	status1, body1 := send()
	if status1 != fiber.StatusCreated {
		t.Fatalf("expected %d got %d", fiber.StatusCreated, status1)
	}

	// The retry must replay the stored response, not run the handler again.
	status2, body2 := send()
	if status2 != fiber.StatusCreated {
		t.Fatalf("expected cached status %d got %d", fiber.StatusCreated, status2)
	}
	if body1 != body2 {
		t.Fatalf("expected replayed body %q got %q", body1, body2)
	}
}

func TestIdempotencySkipsReads(t *testing.T) {
	app := setupIdempotentApp(t)
	app.Get("/wallet", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/wallet", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("reads must bypass the idempotency guard, got %d", resp.StatusCode)
	}
}
