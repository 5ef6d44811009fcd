package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/staffer"
	"github.com/poiesic/staffer/ai"
	"github.com/poiesic/staffer/ai/openai"
	"github.com/poiesic/staffer/compose"
	"github.com/poiesic/staffer/core"
	"github.com/poiesic/staffer/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	askFunc    func(ctx context.Context, query string, topK int) (*staffer.Response, error)
	searchFunc func(skills []string, f roster.Filter) ([]core.Profile, error)
	reloadFunc func(ctx context.Context) (int, error)
	ready      bool
	size       int
}

func (f *fakeEngine) Ask(ctx context.Context, query string, topK int) (*staffer.Response, error) {
	return f.askFunc(ctx, query, topK)
}

func (f *fakeEngine) Search(skills []string, filter roster.Filter) ([]core.Profile, error) {
	return f.searchFunc(skills, filter)
}

func (f *fakeEngine) Reload(ctx context.Context) (int, error) {
	return f.reloadFunc(ctx)
}

func (f *fakeEngine) Ready() bool { return f.ready }
func (f *fakeEngine) Size() int   { return f.size }

func newTestServer(t *testing.T, e Engine) *httptest.Server {
	t.Helper()
	s, err := New(e)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEngineRequired)

	s, err := New(&fakeEngine{}, WithLogger(nil))
	require.NoError(t, err)
	assert.NotNil(t, s.Handler())
}

func TestRootAndHealth(t *testing.T) {
	e := &fakeEngine{ready: true, size: 5}
	ts := newTestServer(t, e)

	t.Run("root", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decode(t, resp, &body)
		assert.Contains(t, body["message"], "/chat/")
	})

	t.Run("ready", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		decode(t, resp, &body)
		assert.Equal(t, "ok", body["status"])
		assert.EqualValues(t, 5, body["profiles"])
	})

	t.Run("not ready", func(t *testing.T) {
		e.ready = false
		defer func() { e.ready = true }()
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestSearchHandler(t *testing.T) {
	var gotSkills []string
	var gotFilter roster.Filter
	e := &fakeEngine{
		searchFunc: func(skills []string, f roster.Filter) ([]core.Profile, error) {
			gotSkills, gotFilter = skills, f
			return []core.Profile{{Id: 1, Name: "Alice Johnson"}}, nil
		},
	}
	ts := newTestServer(t, e)

	t.Run("all parameters", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/employees/search?skill=python,%20aws&min_experience=4&project=health&availability=available")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var profiles []core.Profile
		decode(t, resp, &profiles)
		require.Len(t, profiles, 1)
		assert.Equal(t, "Alice Johnson", profiles[0].Name)

		assert.Equal(t, []string{"python", "aws"}, gotSkills)
		require.NotNil(t, gotFilter.MinExperience)
		assert.Equal(t, 4, *gotFilter.MinExperience)
		assert.Equal(t, "health", gotFilter.Project)
		assert.Equal(t, "available", gotFilter.Availability)
	})

	t.Run("no parameters", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/employees/search")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, gotSkills)
		assert.Nil(t, gotFilter.MinExperience)
	})

	for _, v := range []string{"abc", "-1", "2.5"} {
		t.Run("bad min_experience "+v, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/employees/search?min_experience=" + v)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	t.Run("uninitialized", func(t *testing.T) {
		e.searchFunc = func([]string, roster.Filter) ([]core.Profile, error) {
			return nil, core.ErrUninitialized
		}
		resp, err := http.Get(ts.URL + "/employees/search")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestChatHandler(t *testing.T) {
	var gotQuery string
	var gotTopK int
	e := &fakeEngine{
		askFunc: func(_ context.Context, query string, topK int) (*staffer.Response, error) {
			gotQuery, gotTopK = query, topK
			return &staffer.Response{
				Answer: "Alice fits.",
				Source: compose.SourceTemplate,
				Candidates: []core.RankedCandidate{
					{Profile: core.Profile{Id: 1, Name: "Alice Johnson"}, Score: 0.9},
				},
			}, nil
		},
	}
	ts := newTestServer(t, e)

	t.Run("ok", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/chat/", "application/json", strings.NewReader(`{"query":"python developer","top_k":2}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body map[string]any
		decode(t, resp, &body)
		assert.Equal(t, "Alice fits.", body["answer"])
		assert.Equal(t, string(compose.SourceTemplate), body["source"])
		candidates := body["candidates"].([]any)
		require.Len(t, candidates, 1)
		first := candidates[0].(map[string]any)
		assert.Equal(t, "Alice Johnson", first["employee"].(map[string]any)["name"])

		assert.Equal(t, "python developer", gotQuery)
		assert.Equal(t, 2, gotTopK)
	})

	t.Run("without trailing slash", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/chat", "application/json", strings.NewReader(`{"query":"go"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 0, gotTopK)
	})

	t.Run("bad body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/chat/", "application/json", strings.NewReader(`{"query":`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("engine failure", func(t *testing.T) {
		e.askFunc = func(context.Context, string, int) (*staffer.Response, error) {
			return nil, errors.New("boom")
		}
		resp, err := http.Post(ts.URL+"/chat/", "application/json", strings.NewReader(`{"query":"x"}`))
		require.NoError(t, err)
		var body errorResponse
		decode(t, resp, &body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "boom", body.Error)
	})
}

func TestReloadHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"missing file", fmt.Errorf("%w: gone", core.ErrNotFound), http.StatusUnprocessableEntity},
		{"malformed", fmt.Errorf("%w: bad json", core.ErrMalformed), http.StatusUnprocessableEntity},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &fakeEngine{
				reloadFunc: func(context.Context) (int, error) {
					if tt.err != nil {
						return 0, tt.err
					}
					return 7, nil
				},
			}
			ts := newTestServer(t, e)

			resp, err := http.Post(ts.URL+"/admin/reload", "application/json", nil)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.err == nil {
				var body map[string]int
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, 7, body["profiles"])
			}
		})
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, &fakeEngine{ready: true})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/chat/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWithEngine(t *testing.T) {
	provider, err := openai.NewProvider(ai.NewConfig(ai.WithEmbeddingProvider(ai.ProviderHashing)))
	require.NoError(t, err)
	e, err := staffer.Open(context.Background(), "../testdata/employees.json", staffer.WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })

	ts := newTestServer(t, e)

	resp, err := http.Post(ts.URL+"/chat/", "application/json", strings.NewReader(`{"query":"Python developer with healthcare experience","top_k":2}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body staffer.Response
	decode(t, resp, &body)
	assert.Equal(t, compose.SourceTemplate, body.Source)
	require.NotEmpty(t, body.Candidates)
	names := make([]string, 0, len(body.Candidates))
	for _, c := range body.Candidates {
		names = append(names, c.Profile.Name)
	}
	assert.Contains(t, names, "Alice Johnson")
	assert.NotContains(t, names, "David Lee")
	assert.Contains(t, body.Answer, "Alice Johnson")
}
