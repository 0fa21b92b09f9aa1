package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/metrics"
	"github.com/BloggingApp/social-service/internal/repository/memory"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	tokens  *utils.TokenManager
	metrics *metrics.Collector
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := utils.NewTokenManager(utils.TokenConfig{Secret: "handler-secret", Issuer: "social-service"})
	require.NoError(t, err)

	logger := zap.NewNop()
	services := service.New(logger, memory.New(), tokens, utils.NewPasswordHasher(bcrypt.MinCost, 4), service.Options{})
	collector := metrics.NewCollector("social")
	h := New(services, tokens, collector, logger, "")

	return &testServer{t: t, router: h.InitRoutes(), tokens: tokens, metrics: collector}
}

func (s *testServer) do(method string, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) signup(email string) (string, uuid.UUID) {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/signup", gin.H{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     email,
		"password":  "pw123456",
	}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func (s *testServer) createPost(token string, title string) int64 {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/post", gin.H{"title": title, "content": "body", "tags": []string{"go"}}, token)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var post struct {
		ID int64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &post))
	return post.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSignupExample(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/signup", gin.H{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"password":  "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "User created successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user["email"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)

	claims, err := s.tokens.Verify(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestSignupDuplicateAndValidation(t *testing.T) {
	s := newTestServer(t)
	s.signup("a@b.com")

	w := s.do(http.MethodPost, "/api/auth/signup", gin.H{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"password":  "pw123456",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists!", decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/signup", gin.H{"firstName": "A", "email": "c@d.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide all the required fields", decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/signup", gin.H{
		"firstName": "A",
		"lastName":  "B",
		"email":     "not-an-email",
		"password":  "pw123456",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email must be a valid email", decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/signup", "{not json", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errInvalidBody.Error(), decode(t, w)["message"])
}

func TestSignin(t *testing.T) {
	s := newTestServer(t)
	s.signup("a@b.com")

	w := s.do(http.MethodPost, "/api/auth/signin", gin.H{"email": "a@b.com", "password": "pw123456"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "User signed in successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	w = s.do(http.MethodPost, "/api/auth/signin", gin.H{"email": "a@b.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, hasToken := decode(t, w)["token"]
	assert.False(t, hasToken)
}

func TestMeRequiresToken(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signup("a@b.com")

	w := s.do(http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/auth/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), decode(t, w)["id"])

	other, err := utils.NewTokenManager(utils.TokenConfig{Secret: "other-secret", Issuer: "social-service"})
	require.NoError(t, err)
	forged, err := other.Issue(userID, "a@b.com")
	require.NoError(t, err)
	w = s.do(http.MethodGet, "/api/auth/me", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikeToggleExample(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@b.com")
	postID := s.createPost(token, "post")
	path := fmt.Sprintf("/api/post/%d/like", postID)

	w := s.do(http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post liked", decode(t, w)["message"])

	w = s.do(http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post unliked", decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/post/999/like", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostsPagination(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@b.com")
	for i := 0; i < 7; i++ {
		s.createPost(token, fmt.Sprintf("post %d", i))
	}

	var resp dto.PostsResponse

	w := s.do(http.MethodGet, "/api/post", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 5)
	assert.Equal(t, dto.PostsMeta{Total: 7, Page: 1, TotalPages: 2, Limit: 5}, resp.Meta)
	assert.Equal(t, "post 6", resp.Data[0].Title)
	assert.Equal(t, "Ada Lovelace", resp.Data[0].Author.Name)

	w = s.do(http.MethodGet, "/api/post?page=abc&limit=-3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 5, resp.Meta.Limit)

	w = s.do(http.MethodGet, "/api/post?page=1&limit=500", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Meta.Limit)
	assert.Len(t, resp.Data, 7)

	w = s.do(http.MethodGet, "/api/post?page=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestPostOwnership(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.signup("a@b.com")
	intruder, _ := s.signup("c@d.com")
	postID := s.createPost(owner, "mine")
	path := fmt.Sprintf("/api/post/%d", postID)

	w := s.do(http.MethodPut, path, gin.H{"title": "stolen"}, intruder)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, path, nil, intruder)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mine", decode(t, w)["title"])

	w = s.do(http.MethodPut, path, gin.H{"title": "renamed"}, owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "renamed", decode(t, w)["title"])

	w = s.do(http.MethodPut, path, gin.H{"title": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPut, "/api/post/abc", gin.H{"title": "x"}, owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/post/999", nil, owner)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostDeleteCascade(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.signup("a@b.com")
	reader, _ := s.signup("c@d.com")
	postID := s.createPost(owner, "post")

	w := s.do(http.MethodPost, fmt.Sprintf("/api/post/%d/like", postID), nil, reader)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, fmt.Sprintf("/api/post/%d/comment", postID), gin.H{"content": "nice"}, reader)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/post/%d", postID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["likes"], 1)
	assert.Len(t, body["comments"], 1)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/post/%d", postID), nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post deleted successfully", decode(t, w)["message"])

	w = s.do(http.MethodGet, fmt.Sprintf("/api/post/%d", postID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, fmt.Sprintf("/api/post/%d/comments", postID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodPost, fmt.Sprintf("/api/post/%d/like", postID), nil, reader)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentsFlow(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.signup("a@b.com")
	reader, _ := s.signup("c@d.com")
	postID := s.createPost(owner, "post")
	commentPath := fmt.Sprintf("/api/post/%d/comment", postID)

	w := s.do(http.MethodPost, commentPath, gin.H{"content": ""}, reader)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Content is required", decode(t, w)["message"])

	w = s.do(http.MethodPost, commentPath, gin.H{"content": "root"}, reader)
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.CreateCommentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Comment added", created.Message)
	rootID := created.Comment.ID

	w = s.do(http.MethodPost, commentPath, gin.H{"content": "reply", "parentId": rootID}, owner)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, commentPath, gin.H{"content": "orphan", "parentId": 999}, owner)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/post/%d/comments", postID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var thread dto.CommentThreadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &thread))
	require.Len(t, thread.Data, 1)
	require.Len(t, thread.Data[0].Replies, 1)
	assert.Equal(t, "reply", thread.Data[0].Replies[0].Content)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/post/%d/comments?depth=zero", postID), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", commentPath, rootID), nil, owner)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", commentPath, rootID), nil, reader)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Comment deleted", decode(t, w)["message"])

	w = s.do(http.MethodGet, fmt.Sprintf("/api/post/%d/comments", postID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"data":[]}`, strings.TrimSpace(w.Body.String()))

	w = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", commentPath, rootID), nil, reader)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@b.com")
	postID := s.createPost(token, "post")
	s.do(http.MethodPost, fmt.Sprintf("/api/post/%d/like", postID), nil, token)

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.Signups))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.PostsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.LikesToggled.WithLabelValues("liked")))

	w := s.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `social_http_requests_total{method="POST",route="/api/post/:id/like",status="200"} 1`)
}

func TestErrorStatusHidesInternalErrors(t *testing.T) {
	status, message := errorStatus(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", message)

	status, message = errorStatus(service.ErrInternal)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", message)

	status, _ = errorStatus(service.ErrUserExists)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = errorStatus(service.ErrForbiddenPostDelete)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = errorStatus(service.ErrNotAuthorized)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{logger: zap.NewNop(), metrics: metrics.NewCollector("social")}

	r := gin.New()
	r.Use(h.recoveryMiddleware)
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["message"])
}

func TestIdentityContext(t *testing.T) {
	identity := Identity{UserID: uuid.New(), Email: "a@b.com"}

	got, ok := IdentityFromContext(WithIdentity(context.Background(), identity))
	require.True(t, ok)
	assert.Equal(t, identity, got)

	_, ok = IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestPostBodyLimits(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("a@b.com")
	postID := s.createPost(token, "post")
	path := fmt.Sprintf("/api/post/%d", postID)

	tags := make([]string, 21)
	for i := range tags {
		tags[i] = fmt.Sprintf("tag%d", i)
	}

	w := s.do(http.MethodPut, path, gin.H{"tags": tags}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "tags must have at most 20 items", decode(t, w)["message"])

	w = s.do(http.MethodPut, path, gin.H{"title": strings.Repeat("x", 201)}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title must be at most 200 characters", decode(t, w)["message"])

	w = s.do(http.MethodPut, path, gin.H{"tags": []string{strings.Repeat("t", 51)}}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/post", gin.H{"title": "t", "content": strings.Repeat("c", 10001)}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "content must be at most 10000 characters", decode(t, w)["message"])

	w = s.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "post", decode(t, w)["title"])
}

func TestErrorMessages(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/post", gin.H{"title": "t", "content": "c"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user is not authorized", decode(t, w)["message"])

	w = s.do(http.MethodGet, "/api/auth/me", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid or expired token", decode(t, w)["message"])

	w = s.do(http.MethodGet, "/api/post/abc", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid post ID", decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/signin", "{", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decode(t, w)["message"])

	w = s.do(http.MethodGet, "/api/post/999", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", decode(t, w)["message"])
}

func TestSwaggerDocs(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/docs/index.html", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")

	w = s.do(http.MethodGet, "/api/docs/doc.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"/api/auth/signup"`)
	assert.Contains(t, body, `"/api/post/{id}/comment/{commentId}"`)
	assert.Contains(t, body, `"BearerAuth"`)
}
