package powapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proofengine/pkg/hexkdf"
	"github.com/dmitrymomot/proofengine/pkg/kdf"
	"github.com/dmitrymomot/proofengine/pkg/pow"
	"github.com/dmitrymomot/proofengine/pkg/powapi"
)

func newServer(t *testing.T, store pow.Store, opts ...powapi.Option) *httptest.Server {
	t.Helper()
	svc := pow.NewService(store,
		pow.WithParams(kdf.Params{N: 16, R: 1, P: 1, KeyLen: 16}),
		pow.WithDifficultyLevel(4),
		pow.WithBatchSize(2),
	)
	srv := httptest.NewServer(powapi.Router(svc, opts...))
	t.Cleanup(srv.Close)
	return srv
}

func memoryStore(t *testing.T) *pow.MemoryStore {
	t.Helper()
	store := pow.NewMemoryStore(pow.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func post(t *testing.T, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(target, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func issue(t *testing.T, srv *httptest.Server) []string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/getChallenges", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var challenges []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&challenges))
	return challenges
}

func TestGetChallenges(t *testing.T) {
	t.Parallel()

	srv := newServer(t, memoryStore(t))
	challenges := issue(t, srv)
	require.Len(t, challenges, 2)

	c, err := pow.DecodeChallenge(challenges[0])
	require.NoError(t, err)
	assert.Equal(t, "0f", c.Difficulty)
}

func TestVerifyBody(t *testing.T) {
	t.Parallel()

	srv := newServer(t, memoryStore(t))
	challenges := issue(t, srv)

	sol, err := pow.Solve(context.Background(), challenges[0], pow.WithWorkers(2))
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"powChallenge": challenges[0], "nonceHex": sol.Nonce})
	resp, out := post(t, srv.URL+"/verify", string(body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", out["status"])

	resp, out = post(t, srv.URL+"/verify", string(body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, pow.ErrUnknownChallenge.Error(), out["error"])
}

func TestVerifyQuery(t *testing.T) {
	t.Parallel()

	srv := newServer(t, memoryStore(t))
	challenges := issue(t, srv)

	sol, err := pow.Solve(context.Background(), challenges[1], pow.WithWorkers(2))
	require.NoError(t, err)

	q := url.Values{"challenge": {challenges[1]}, "nonce": {sol.Nonce}}
	resp, out := post(t, srv.URL+"/verify?"+q.Encode(), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", out["status"])
}

func TestVerifyErrors(t *testing.T) {
	t.Parallel()

	srv := newServer(t, memoryStore(t))

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", ``, pow.ErrMissingInput.Error()},
		{"bad json", `{`, "invalid request body"},
		{"bad nonce", `{"powChallenge":"abc","nonceHex":"zz"}`, pow.ErrInvalidNonce.Error()},
		{"bad challenge", `{"powChallenge":"!!","nonceHex":"01"}`, pow.ErrInvalidChallenge.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, out := post(t, srv.URL+"/verify", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.want, out["error"])
		})
	}
}

func TestScrypt(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)

	resp, out := post(t, srv.URL+"/scrypt", `{"password":"","salt":"","n":16,"r":1,"p":1,"dklen":64}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, hexkdf.MustScrypt("", "", 16, 1, 1, 64), out["key"])

	resp, out = post(t, srv.URL+"/scrypt", `{"password":"","salt":"","n":100000,"r":8,"p":1,"dklen":16}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_params", out["error"])

	resp, out = post(t, srv.URL+"/scrypt", `{"password":"abc","salt":"","n":16,"r":1,"p":1,"dklen":16}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_encoding", out["error"])
}

func TestScryptComputationFailure(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil, powapi.WithDeriver(hexkdf.New(hexkdf.WithMaxMemory(1))))
	resp, out := post(t, srv.URL+"/scrypt", `{"password":"","salt":"","n":16,"r":1,"p":1,"dklen":16}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "computation_failure", out["error"])
}

func TestScryptDefaultMemoryCap(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)
	for _, body := range []string{
		`{"password":"","salt":"","n":4194304,"r":8,"p":1,"dklen":16}`,
		`{"password":"","salt":"","n":2147483648,"r":8,"p":1,"dklen":16}`,
		`{"password":"","salt":"","n":2,"r":1,"p":33554432,"dklen":16}`,
	} {
		resp, out := post(t, srv.URL+"/scrypt", body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, body)
		assert.Equal(t, "computation_failure", out["error"], body)
	}
}

type downStore struct{}

func (downStore) Save(context.Context, string, time.Duration) error { return errors.New("down") }
func (downStore) Consume(context.Context, string) (bool, error)     { return false, errors.New("down") }
func (downStore) Ping(context.Context) error                        { return errors.New("down") }

func TestHealth(t *testing.T) {
	t.Parallel()

	healthy := newServer(t, memoryStore(t))
	broken := newServer(t, downStore{})

	check := func(srv *httptest.Server, path string, status int) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, path)
	}

	check(healthy, "/health/live", http.StatusOK)
	check(healthy, "/health/ready", http.StatusOK)
	check(broken, "/health/live", http.StatusOK)
	check(broken, "/health/ready", http.StatusServiceUnavailable)

	resp, err := http.Post(broken.URL+"/getChallenges", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil, powapi.WithAllowedOrigins("https://app.example.com"))

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/verify", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}
