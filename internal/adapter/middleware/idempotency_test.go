package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	testKey  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testUser = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

// setupEcho mounts the middleware after a stub that plays the role of RequireAuth.
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	withUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid := c.Request().Header.Get("X-Test-User"); uid != "" {
				c.Set(ctxUserID, uid)
			}
			return next(c)
		}
	}
	e.POST("/loans/:loan_id/payments", handler, withUser, Idempotency(rdb, ttl, nil))
	e.GET("/loans/:loan_id/payments", handler, withUser, Idempotency(rdb, ttl, nil))
	return e
}

func doReq(e *echo.Echo, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// countingHandler answers 201 with the call number so replays are visible.
func countingHandler(calls *int32) echo.HandlerFunc {
	return func(c echo.Context) error {
		n := atomic.AddInt32(calls, 1)
		return c.JSON(http.StatusCreated, map[string]any{"call": n})
	}
}

func Test_BypassOnGET(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	hdr := map[string]string{HeaderIdempotencyKey: testKey}
	doReq(e, http.MethodGet, "/loans/l1/payments", "", hdr)
	doReq(e, http.MethodGet, "/loans/l1/payments", "", hdr)
	if calls != 2 {
		t.Fatalf("GET must never be deduplicated, handler calls = %d", calls)
	}
}

func Test_NoKey_PassesThrough(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	doReq(e, http.MethodPost, "/loans/l1/payments", `{"amount":1}`, nil)
	doReq(e, http.MethodPost, "/loans/l1/payments", `{"amount":1}`, nil)
	if calls != 2 {
		t.Fatalf("requests without a key run every time, handler calls = %d", calls)
	}
}

func Test_NilClient_PassesThrough(t *testing.T) {
	var calls int32
	e := setupEcho(nil, time.Minute, countingHandler(&calls))
	hdr := map[string]string{HeaderIdempotencyKey: testKey}

	doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, hdr)
	doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, hdr)
	if calls != 2 {
		t.Fatalf("disabled store must not deduplicate, handler calls = %d", calls)
	}
}

func Test_InvalidKey_Returns400(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	rec := doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, map[string]string{HeaderIdempotencyKey: "NOT-VALID"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run")
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&calls))
	hdr := map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": testUser}

	rec1 := doReq(e, http.MethodPost, "/loans/l1/payments", `{"amount":2000}`, hdr)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}
	rec2 := doReq(e, http.MethodPost, "/loans/l1/payments", `{"amount":2000}`, hdr)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get(HeaderReplayed) != "true" {
		t.Fatalf("replayed response must be marked")
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func Test_KeyScopedByPathAndUser(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": testUser})
	doReq(e, http.MethodPost, "/loans/l2/payments", `{}`, map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": testUser})
	doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": strings.Repeat("c", 32)})
	if calls != 3 {
		t.Fatalf("distinct loans or users must not share a key, handler calls = %d", calls)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))
	body := `{"x":1}`

	key := buildKey(http.MethodPost, "/loans/l1/payments", testUser, testKey)
	ok, err := provisionalSet(context.Background(), rdb, key, idempEntry{
		InProgress: true,
		BodySHA256: bodyHash([]byte(body)),
		CreatedAt:  nowUTC(),
	})
	if err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(e, http.MethodPost, "/loans/l1/payments", body, map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": testUser})
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if calls != 0 {
		t.Fatalf("handler must not run while the first request is in flight")
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))
	hdr := map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": testUser}

	doReq(e, http.MethodPost, "/loans/l1/payments", `{"amount":1}`, hdr)
	rec := doReq(e, http.MethodPost, "/loans/l1/payments", `{"amount":2}`, hdr)
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same key => want 409, got %d", rec.Code)
	}
}

func Test_ServerError_IsNotStored(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
		}
		return c.JSON(http.StatusCreated, map[string]bool{"ok": true})
	})
	hdr := map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": testUser}

	if rec := doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, hdr); rec.Code != http.StatusInternalServerError {
		t.Fatalf("first => want 500, got %d", rec.Code)
	}
	if rec := doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, hdr); rec.Code != http.StatusCreated {
		t.Fatalf("retry after 500 => want 201, got %d", rec.Code)
	}
}

func Test_StoredEntryExpires(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&calls))
	hdr := map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": testUser}

	doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, hdr)
	mr.FastForward(31 * time.Second)
	doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, hdr)
	if calls != 2 {
		t.Fatalf("expired key must allow a new execution, handler calls = %d", calls)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	var calls int32
	e := setupEcho(rdb, time.Minute, countingHandler(&calls))

	rec := doReq(e, http.MethodPost, "/loans/l1/payments", `{}`, map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}

func Test_bodyHash(t *testing.T) {
	if bodyHash([]byte("a")) == bodyHash([]byte("b")) {
		t.Fatal("different bodies must hash differently")
	}
	if got := bodyHash(nil); len(got) != 64 {
		t.Fatalf("want hex sha256, got %q", got)
	}
}

func Test_buildKey(t *testing.T) {
	k := buildKey("POST", "/loans/l1/payments", "", strings.ToUpper(testKey))
	want := "idemp:udhar:post:/loans/l1/payments:anonymous:" + testKey
	if k != want {
		t.Fatalf("buildKey = %q, want %q", k, want)
	}
}

func Test_validKey(t *testing.T) {
	cases := map[string]bool{
		testKey:                                true,
		"123e4567-e89b-42d3-a456-426614174000": true,
		"123E4567-E89B-42D3-A456-426614174000": true,
		"not-a-key":                            false,
		"":                                     false,
		"aaaa":                                 false,
	}
	for in, want := range cases {
		if got := validKey(in); got != want {
			t.Errorf("validKey(%q) = %v, want %v", in, got, want)
		}
	}
}

func Test_respRecorder_CapturesBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := &respRecorder{w: w, buf: &bytes.Buffer{}, code: http.StatusOK}
	r.WriteHeader(http.StatusAccepted)
	_, _ = r.Write([]byte("hi"))
	if r.code != http.StatusAccepted || r.buf.String() != "hi" || w.Body.String() != "hi" {
		t.Fatalf("recorder did not tee: code=%d buf=%q out=%q", r.code, r.buf.String(), w.Body.String())
	}
}
