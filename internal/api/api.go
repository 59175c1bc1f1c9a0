// Package api exposes the analysis engine over JSON HTTP endpoints for
// the dashboard frontend.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/civiclens/tribuna/pkg/tribuna"
	"github.com/civiclens/tribuna/pkg/tribuna/corpus"
)

// StandardResponse is the envelope for every endpoint.
type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server wires the engine to HTTP handlers.
type Server struct {
	engine *tribuna.Engine
}

// NewServer creates a Server over a loaded engine.
func NewServer(engine *tribuna.Engine) *Server {
	return &Server{engine: engine}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/statements", s.handleStatements)
	mux.HandleFunc("GET /api/speakers", s.handleSpeakers)
	mux.HandleFunc("GET /api/topics", s.handleTopics)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("POST /api/session", s.handleNewSession)
	return mux
}

// jsonResponse sends a standard JSON response
func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse sends a standard Error response
func errorResponse(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, StandardResponse{
		Success: false,
		Error:   msg,
	})
}

// filterFromQuery builds a corpus filter from URL query parameters:
// speaker, label and topic may repeat; from/to are ISO dates; q is a
// substring match.
func filterFromQuery(r *http.Request) (corpus.Filter, error) {
	q := r.URL.Query()
	f := corpus.Filter{
		Speakers: q["speaker"],
		Labels:   q["label"],
		Contains: q.Get("q"),
	}

	for _, raw := range q["topic"] {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return corpus.Filter{}, err
		}
		f.TopicIDs = append(f.TopicIDs, id)
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return corpus.Filter{}, err
		}
		f.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return corpus.Filter{}, err
		}
		f.To = t
	}
	return f, nil
}

// handleOverview - GET /api/overview
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid filter")
		return
	}
	jsonResponse(w, http.StatusOK, StandardResponse{Success: true, Data: s.engine.Overview(f)})
}

// StatementRow is the wire form of one corpus row.
type StatementRow struct {
	Date             string   `json:"date"`
	Speaker          string   `json:"speaker"`
	TextEN           string   `json:"text_en"`
	TextLocal        string   `json:"text_local"`
	WordCount        int      `json:"word_count"`
	LexicalDiversity float64  `json:"lexical_diversity"`
	SentimentScore   float64  `json:"sentiment_score"`
	SentimentLabel   string   `json:"sentiment_label"`
	TopicID          int      `json:"topic_id"`
	TopicKeywords    []string `json:"topic_keywords,omitempty"`
}

// handleStatements - GET /api/statements
func (s *Server) handleStatements(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid filter")
		return
	}

	stmts := s.engine.Filter(f)
	rows := make([]StatementRow, len(stmts))
	for i, st := range stmts {
		rows[i] = StatementRow{
			Date:             st.DateDisplay(),
			Speaker:          st.Speaker,
			TextEN:           st.TextEN,
			TextLocal:        st.TextLocal,
			WordCount:        st.WordCount,
			LexicalDiversity: st.LexicalDiversity,
			SentimentScore:   st.SentimentScore,
			SentimentLabel:   st.SentimentLabel,
			TopicID:          st.TopicID,
			TopicKeywords:    st.TopicKeywords,
		}
	}
	jsonResponse(w, http.StatusOK, StandardResponse{Success: true, Data: rows})
}

// handleSpeakers - GET /api/speakers
func (s *Server) handleSpeakers(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid filter")
		return
	}
	jsonResponse(w, http.StatusOK, StandardResponse{Success: true, Data: s.engine.SpeakerSummaries(f)})
}

// TopicsPayload carries the topic summaries plus their coherence when
// available.
type TopicsPayload struct {
	Topics []TopicRow `json:"topics"`
	NPMI   *float64   `json:"npmi_mean,omitempty"`
}

// TopicRow is the wire form of one topic.
type TopicRow struct {
	ID       int      `json:"id"`
	Keywords []string `json:"keywords"`
}

// handleTopics - GET /api/topics
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	tops := s.engine.Topics()
	payload := TopicsPayload{Topics: make([]TopicRow, len(tops))}
	for i, t := range tops {
		payload.Topics[i] = TopicRow{ID: t.ID, Keywords: t.Keywords}
	}
	if score, ok := s.engine.Coherence(); ok {
		mean := score.Mean
		payload.NPMI = &mean
	}
	jsonResponse(w, http.StatusOK, StandardResponse{Success: true, Data: payload})
}

// AskRequest is the Q&A request body. An empty session id starts a new
// session; the response echoes the id to reuse.
type AskRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// handleAsk - POST /api/ask
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		errorResponse(w, http.StatusBadRequest, "Query required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = s.engine.NewSession()
	}

	res := s.engine.Ask(r.Context(), req.SessionID, req.Query)
	jsonResponse(w, http.StatusOK, StandardResponse{Success: true, Data: res})
}

// handleNewSession - POST /api/session
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, StandardResponse{
		Success: true,
		Data:    map[string]string{"session_id": s.engine.NewSession()},
	})
}
