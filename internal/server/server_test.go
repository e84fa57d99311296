package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/pgmaint/internal/advisor"
	"github.com/tordrt/pgmaint/internal/testutil"
)

type stubClient struct {
	calls  int
	got    []string
	advice advisor.Advice
	err    error
}

func (s *stubClient) Advise(_ context.Context, names []string) (advisor.Advice, error) {
	s.calls++
	s.got = names
	return s.advice, s.err
}

func newTestServer(t *testing.T, client advisor.Client) *httptest.Server {
	t.Helper()
	logger := testutil.NewTestLogger(t)

	srv, err := New(Config{
		Addr:    "127.0.0.1:0",
		Advisor: advisor.NewService(client, time.Second, logger),
		Logger:  logger,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestAPIParse(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	resp := postJSON(t, ts, "/api/parse", `{"input":"Table Names\nCards\nflow.FlowStage\nCards"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Tables []struct {
			ID      string  `json:"id"`
			Name    string  `json:"name"`
			Schema  *string `json:"schema"`
			RawName string  `json:"rawName"`
		} `json:"tables"`
		Scripts struct {
			Vacuum   string `json:"vacuum"`
			Reindex  string `json:"reindex"`
			Combined string `json:"combined"`
		} `json:"scripts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Tables, 2)
	assert.Equal(t, "Cards", body.Tables[0].RawName)
	assert.Nil(t, body.Tables[0].Schema)
	assert.NotEmpty(t, body.Tables[0].ID)
	require.NotNil(t, body.Tables[1].Schema)
	assert.Equal(t, "flow", *body.Tables[1].Schema)
	assert.Equal(t, "FlowStage", body.Tables[1].Name)
	assert.Equal(t, "VACUUM (FULL, ANALYZE) \"Cards\";\nVACUUM (FULL, ANALYZE) \"flow\".\"FlowStage\";", body.Scripts.Vacuum)
	assert.Contains(t, body.Scripts.Combined, "-- Generated for 2 tables")
}

func TestAPIParseMalformed(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	resp := postJSON(t, ts, "/api/parse", `{"input":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIAdvice(t *testing.T) {
	good := advisor.Advice{
		Summary:         "Workflow tables.",
		Recommendations: []string{"Weekly vacuum."},
		RiskAssessment:  "Locks.",
	}

	tests := []struct {
		name          string
		client        *stubClient
		body          string
		wantRequested bool
		wantAdvice    *advisor.Advice
		wantCalls     int
		wantNames     []string
	}{
		{
			name:          "success from input",
			client:        &stubClient{advice: good},
			body:          `{"input":"Cards\nflow.FlowStage"}`,
			wantRequested: true,
			wantAdvice:    &good,
			wantCalls:     1,
			wantNames:     []string{"Cards", "flow.FlowStage"},
		},
		{
			name:          "failure yields fallback",
			client:        &stubClient{err: errors.New("503 from provider")},
			body:          `{"tables":["Cards"]}`,
			wantRequested: true,
			wantAdvice:    func() *advisor.Advice { a := advisor.Fallback(); return &a }(),
			wantCalls:     1,
			wantNames:     []string{"Cards"},
		},
		{
			name:          "table list is trimmed and deduplicated",
			client:        &stubClient{advice: good},
			body:          `{"tables":["Cards"," Cards ","","Table Names","flow.FlowStage"]}`,
			wantRequested: true,
			wantAdvice:    &good,
			wantCalls:     1,
			wantNames:     []string{"Cards", "flow.FlowStage"},
		},
		{
			name:          "table list of only noise skips the client",
			client:        &stubClient{advice: good},
			body:          `{"tables":[" ","Table Names"]}`,
			wantRequested: false,
			wantCalls:     0,
		},
		{
			name:          "empty list skips the client",
			client:        &stubClient{advice: good},
			body:          `{"input":"Table Names\n"}`,
			wantRequested: false,
			wantCalls:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.client)

			resp := postJSON(t, ts, "/api/advice", tt.body)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				Advice    *advisor.Advice `json:"advice"`
				Requested bool            `json:"requested"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			assert.Equal(t, tt.wantRequested, body.Requested)
			assert.Equal(t, tt.wantAdvice, body.Advice)
			assert.Equal(t, tt.wantCalls, tt.client.calls)
			assert.Equal(t, tt.wantNames, tt.client.got)
		})
	}
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	resp, err := http.PostForm(ts.URL+"/", url.Values{"input": {"Cards\nflow.FlowStage"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	page := string(body)
	assert.Contains(t, page, "2 Detected")
	assert.Contains(t, page, "REINDEX TABLE &#34;flow&#34;.&#34;FlowStage&#34;;")
}

func TestIndexPageTablesView(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	resp, err := http.PostForm(ts.URL+"/", url.Values{"input": {"Cards"}, "view": {"tables"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	page := string(body)
	assert.Contains(t, page, `<span class="schema">public</span><code>Cards</code>`)
	assert.NotContains(t, page, "Combined Maintenance Script")
}

func TestAdvicePageFallback(t *testing.T) {
	ts := newTestServer(t, &stubClient{err: errors.New("timeout")})

	resp, err := http.PostForm(ts.URL+"/advice", url.Values{"input": {"Cards"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Maintenance summary unavailable.")
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewRequiresAdvisor(t *testing.T) {
	_, err := New(Config{Addr: ":0"})
	assert.Error(t, err)
}
