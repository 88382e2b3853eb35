package loadgen

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// sessionCookie is the cookie the storefront uses to key a shopping cart.
const sessionCookie = "shop_session-id"

// User is one simulated shopper with its own cookies and random source.
type User struct {
	ID      string
	host    string
	client  *http.Client
	stats   *Stats
	rng     *rand.Rand
	faker   *gofakeit.Faker
	minWait time.Duration
	maxWait time.Duration
}

func newUser(host string, transport http.RoundTripper, timeout time.Duration, stats *Stats, seed uint64, minWait, maxWait time.Duration) (*User, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if u, err := url.Parse(host); err == nil {
		jar.SetCookies(u, []*http.Cookie{{Name: sessionCookie, Value: id, Path: "/"}})
	}

	return &User{
		ID:      id,
		host:    strings.TrimRight(host, "/"),
		client:  &http.Client{Transport: transport, Jar: jar, Timeout: timeout},
		stats:   stats,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		faker:   gofakeit.New(seed),
		minWait: minWait,
		maxWait: maxWait,
	}, nil
}

// Get issues a GET request and records it under "GET path".
func (u *User) Get(ctx context.Context, path string) {
	u.do(ctx, http.MethodGet, path, nil)
}

// Post issues a form POST and records it under "POST path".
func (u *User) Post(ctx context.Context, path string, form url.Values) {
	u.do(ctx, http.MethodPost, path, form)
}

func (u *User) do(ctx context.Context, method, path string, form url.Values) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u.host+path, body)
	if err != nil {
		slog.Debug("Build request failed", "method", method, "path", path, "error", err)
		return
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		// Requests cut short by the end of the run are not failures.
		if ctx.Err() != nil {
			return
		}
		u.stats.Record(method, path, time.Since(start), true)
		slog.Debug("Request failed", "user", u.ID, "method", method, "path", path, "error", err)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	u.stats.Record(method, path, time.Since(start), resp.StatusCode >= 400)
}

func (u *User) randomProduct() string {
	return Products[u.rng.IntN(len(Products))]
}

// thinkTime returns a wait drawn uniformly from [minWait, maxWait].
func (u *User) thinkTime() time.Duration {
	if u.maxWait <= u.minWait {
		return u.minWait
	}
	return u.minWait + time.Duration(u.rng.Int64N(int64(u.maxWait-u.minWait)+1))
}
