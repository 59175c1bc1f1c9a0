package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/civiclens/tribuna/pkg/tribuna"
	"github.com/civiclens/tribuna/pkg/tribuna/config"
	"github.com/civiclens/tribuna/pkg/tribuna/retrieval"
)

const testCSV = `Date,Speaker,Speech,Speech_SQ
2024-03-01,Diella,The procurement reform is a great success,Reforma e prokurimeve është sukses
2024-03-02,Rama,The budget situation is a terrible failure,Situata e buxhetit është dështim
`

type stubAnswerer struct{}

func (stubAnswerer) Generate(ctx context.Context, query, contextText string, sources []retrieval.Source) (string, []retrieval.Source) {
	if len(sources) == 0 || contextText == "" {
		return "Nuk u gjetën burime të përshtatshme.", nil
	}
	return "Sipas burimit [1].", sources
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statements_clean.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.DataPath = path
	cfg.Topics.NumTopics = 2

	engine := tribuna.New(tribuna.Options{Config: cfg, Answerer: stubAnswerer{}})
	if err := engine.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(NewServer(engine).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func getEnvelope(t *testing.T, url string) StandardResponse {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var env StandardResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	return env
}

func TestOverviewEndpoint(t *testing.T) {
	srv := testServer(t)
	env := getEnvelope(t, srv.URL+"/api/overview")
	if !env.Success {
		t.Fatalf("error = %q", env.Error)
	}
	data := env.Data.(map[string]any)
	if data["statements"].(float64) != 2 || data["speakers"].(float64) != 2 {
		t.Errorf("overview = %v", data)
	}
}

func TestStatementsEndpointWithFilter(t *testing.T) {
	srv := testServer(t)

	env := getEnvelope(t, srv.URL+"/api/statements?speaker=Diella")
	rows := env.Data.([]any)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0].(map[string]any)
	if row["speaker"] != "Diella" || row["sentiment_label"] != "Pozitiv" {
		t.Errorf("row = %v", row)
	}
	if row["date"] != "2024-03-01" {
		t.Errorf("date = %v", row["date"])
	}
}

func TestStatementsEndpointBadFilter(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/api/statements?topic=notanumber")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSpeakersEndpoint(t *testing.T) {
	srv := testServer(t)
	env := getEnvelope(t, srv.URL+"/api/speakers")
	if len(env.Data.([]any)) != 2 {
		t.Errorf("speakers = %v", env.Data)
	}
}

func TestTopicsEndpoint(t *testing.T) {
	srv := testServer(t)
	env := getEnvelope(t, srv.URL+"/api/topics")
	data := env.Data.(map[string]any)
	if _, ok := data["topics"]; !ok {
		t.Errorf("payload = %v", data)
	}
}

func TestAskEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/ask", "application/json",
		strings.NewReader(`{"query": "reforma e prokurimeve"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env StandardResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if !env.Success {
		t.Fatalf("error = %q", env.Error)
	}
	data := env.Data.(map[string]any)
	if data["session_id"] == "" {
		t.Error("session id not minted")
	}
	if data["answer"] != "Sipas burimit [1]." {
		t.Errorf("answer = %v", data["answer"])
	}
}

func TestAskEndpointEmptyQuery(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/api/ask", "application/json", strings.NewReader(`{"query": "  "}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSessionEndpoint(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/api/session", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env StandardResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Data.(map[string]any)["session_id"] == "" {
		t.Error("session id empty")
	}
}
