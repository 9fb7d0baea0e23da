package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"campus-club-service/internal/app"
	"campus-club-service/internal/domain"
	"campus-club-service/internal/infra/memory"
)

func TestQuizEndpoints(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodGet, "/api/quizzes/quiz-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get quiz: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("isCorrect")) {
		t.Fatalf("public quiz leaked the answer key: %s", rec.Body)
	}

	body := map[string]any{
		"participantName": "Alice",
		"responses": []map[string]any{
			{"questionId": "q1", "selectedAnswerIndex": 1, "responseTimeSeconds": 10},
		},
	}
	rec = do(t, router, http.MethodPost, "/api/quizzes/quiz-1/attempts", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var attempt domain.QuizAttempt
	decode(t, rec, &attempt)
	if attempt.TotalMarks != 5 || attempt.MaxMarks != 10 || attempt.Percentage != 50 {
		t.Fatalf("unexpected attempt %+v", attempt)
	}

	rec = do(t, router, http.MethodGet, "/api/quizzes/quiz-1/leaderboard?limit=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var lb domain.Leaderboard
	decode(t, rec, &lb)
	if len(lb.Entries) != 1 || lb.Entries[0].ParticipantName != "Alice" {
		t.Fatalf("unexpected leaderboard %+v", lb)
	}
}

func TestQuizErrorStatuses(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown quiz", http.MethodGet, "/api/quizzes/nope", nil, http.StatusNotFound},
		{"bad limit", http.MethodGet, "/api/quizzes/quiz-1/leaderboard?limit=x", nil, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/api/quizzes/quiz-1/attempts", map[string]any{
			"responses": []map[string]any{{"questionId": "q1", "selectedAnswerIndex": 1}},
		}, http.StatusBadRequest},
		{"index out of range", http.MethodPost, "/api/quizzes/quiz-1/attempts", map[string]any{
			"participantName": "Bob",
			"responses":       []map[string]any{{"questionId": "q1", "selectedAnswerIndex": 4}},
		}, http.StatusBadRequest},
		{"unknown question", http.MethodPost, "/api/quizzes/quiz-1/attempts", map[string]any{
			"participantName": "Bob",
			"responses":       []map[string]any{{"questionId": "q9", "selectedAnswerIndex": 0}},
		}, http.StatusUnprocessableEntity},
		{"duplicate question", http.MethodPost, "/api/quizzes/quiz-1/attempts", map[string]any{
			"participantName": "Bob",
			"responses": []map[string]any{
				{"questionId": "q1", "selectedAnswerIndex": 0},
				{"questionId": "q1", "selectedAnswerIndex": 1},
			},
		}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := do(t, router, tc.method, tc.path, "", tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.want, rec.Code, rec.Body)
		}
	}
}

func TestTeamEndpoints(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodPost, "/api/teams", "", map[string]any{"name": "Rocket"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing identity: expected 401, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, "/api/teams", "ghost", map[string]any{"name": "Rocket"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown student: expected 401, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/api/teams", "s1", map[string]any{
		"name":       "Rocket",
		"inviteeIds": []string{"s2"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var team domain.CompetitionTeam
	decode(t, rec, &team)
	if team.Status != domain.TeamPending || len(team.Members) != 1 || team.Slug != "rocket" {
		t.Fatalf("unexpected team %+v", team)
	}
	teamPath := "/api/teams/" + team.ID

	rec = do(t, router, http.MethodPost, "/api/teams", "s2", map[string]any{"name": "Rocket"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate name: expected 409, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, teamPath+"/respond", "s2", map[string]any{"decision": "maybe"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad decision: expected 400, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, teamPath+"/respond", "s3", map[string]any{"decision": "approved"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("uninvited: expected 403, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, teamPath+"/respond", "s2", map[string]any{"decision": "approved"})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	decode(t, rec, &team)
	if team.Status != domain.TeamActive {
		t.Fatalf("expected active team, got %s", team.Status)
	}

	rec = do(t, router, http.MethodPost, teamPath+"/leave", "s1", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("leader leave: expected 409, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodDelete, teamPath+"/members/s2", "s2", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("non-leader remove: expected 409, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodDelete, teamPath+"/members/s2", "s1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	rec = do(t, router, http.MethodPost, teamPath+"/leave", "s2", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("leave after removal: expected 404, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, teamPath+"/disband", "s1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("disband: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, router, http.MethodGet, teamPath, "", nil)
	decode(t, rec, &team)
	if team.Status != domain.TeamDisbanded || len(team.Members) != 0 {
		t.Fatalf("unexpected final team %+v", team)
	}
	rec = do(t, router, http.MethodGet, "/api/teams/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing team: expected 404, got %d", rec.Code)
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	quizzes := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuiz()), time.Minute)
	attempts := memory.NewAttemptStore()
	quizService := app.NewQuizService(quizzes, attempts, attempts, nil)

	students := memory.NewStudentDirectory(
		domain.StudentIdentity{ID: "s1", Name: "Lena"},
		domain.StudentIdentity{ID: "s2", Name: "Ana"},
		domain.StudentIdentity{ID: "s3", Name: "Ben"},
	)
	teamService := app.NewTeamService(memory.NewTeamRepository(), students)
	return NewRouter(quizService, teamService, students)
}

func do(t *testing.T, h http.Handler, method, path, studentID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if studentID != "" {
		req.Header.Set(StudentIDHeader, studentID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
}

func sampleQuiz() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:      "quiz-1",
			Title:   "Warm-up",
			Visible: true,
			Questions: []domain.Question{
				{
					ID:   "q1",
					Text: "What is 2 + 2?",
					Answers: []domain.Answer{
						{Text: "3"},
						{Text: "4", IsCorrect: true},
						{Text: "5"},
						{Text: "22"},
					},
					TimeLimitSeconds: 20,
					Marks:            10,
				},
			},
		},
	}
}
