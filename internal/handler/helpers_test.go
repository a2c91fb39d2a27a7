package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/cache"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository/memory"
	"github.com/fitlog/fitlog/internal/service"
	"github.com/fitlog/fitlog/internal/testutil"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var (
	ann = model.Identity{Name: "Ann", Email: "ann@x.com"}
	bob = model.Identity{Name: "Bob", Email: "bob@x.com"}
)

type codeSink struct {
	codes map[string]string
}

func (s *codeSink) SendResetCode(_ context.Context, email, code string) error {
	s.codes[email] = code
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAccountHandler(t *testing.T, requireChallenge bool) (*AccountHandler, *memory.Store, *codeSink) {
	t.Helper()

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	_, client := testutil.NewMiniRedis(t)
	store := memory.New()
	sink := &codeSink{codes: make(map[string]string)}

	svc := service.NewAccountService(store, hasher, auth.NewTokenIssuer(testSecret, time.Hour), service.ResetPolicy{
		RequireChallenge: requireChallenge,
		ChallengeTTL:     time.Minute,
		Codes:            cache.NewWithClient(client),
		Sender:           sink,
	}, nil, discardLogger())

	return NewAccountHandler(svc, discardLogger()), store, sink
}

// newRequest builds a JSON request. A non-empty id is set as the chi
// {id} URL parameter; a non-zero identity is stored in the context.
func newRequest(t *testing.T, method, path, body string, who model.Identity, id string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if who.Email != "" {
		ctx = auth.ContextWithIdentity(ctx, who)
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
