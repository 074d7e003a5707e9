package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	httpapp "github.com/chenzabatani-spec/web-app-assignment2/internal/app/http"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/domain/models"
	appjwt "github.com/chenzabatani-spec/web-app-assignment2/internal/lib/jwt"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/services/auth"
	usersvc "github.com/chenzabatani-spec/web-app-assignment2/internal/services/user_service"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/storage"
	transporthttp "github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http/crud"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// in-memory credential store with the same atomicity contract as postgres

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*models.User)}
}

func (r *memUsers) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return uuid.Nil, storage.ErrUserExists
		}
	}
	user.ID = uuid.New()
	r.users[user.ID] = &user
	return user.ID, nil
}

func (r *memUsers) UserByEmail(ctx context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, storage.ErrUserNotFound
}

func (r *memUsers) UserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return *u, nil
	}
	return models.User{}, storage.ErrUserNotFound
}

func (r *memUsers) ListUsers(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *memUsers) UpdateUser(ctx context.Context, userID uuid.UUID, username, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	if username != "" {
		u.Username = username
	}
	if email != "" {
		u.Email = email
	}
	return *u, nil
}

func (r *memUsers) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

func (r *memUsers) AppendRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.RefreshTokens = append(u.RefreshTokens, token)
	return nil
}

func (r *memUsers) RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return storage.ErrTokenNotInSet
	}
	idx := slices.Index(u.RefreshTokens, oldToken)
	if idx < 0 {
		return storage.ErrTokenNotInSet
	}
	u.RefreshTokens = slices.Delete(u.RefreshTokens, idx, idx+1)
	u.RefreshTokens = append(u.RefreshTokens, newToken)
	return nil
}

func (r *memUsers) RemoveRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		if idx := slices.Index(u.RefreshTokens, token); idx >= 0 {
			u.RefreshTokens = slices.Delete(u.RefreshTokens, idx, idx+1)
		}
	}
	return nil
}

func (r *memUsers) ClearRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.RefreshTokens = []string{}
	}
	return nil
}

func (r *memUsers) UpdatePassword(ctx context.Context, userID uuid.UUID, passHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.PassHash = passHash
	u.RefreshTokens = []string{}
	return nil
}

// in-memory post store implementing the generic CRUD contract

type memPosts struct {
	mu    sync.Mutex
	posts map[uuid.UUID]models.Post
}

func newMemPosts() *memPosts {
	return &memPosts{posts: make(map[uuid.UUID]models.Post)}
}

func (r *memPosts) Create(ctx context.Context, post models.Post) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = uuid.New()
	r.posts[post.ID] = post
	return post, nil
}

func (r *memPosts) List(ctx context.Context, filter map[string]any) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := []models.Post{}
	for _, p := range r.posts {
		if sender, ok := filter["sender_id"]; ok && p.Sender != sender {
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *memPosts) GetByID(ctx context.Context, id uuid.UUID) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return models.Post{}, storage.ErrPostNotFound
	}
	return p, nil
}

func (r *memPosts) Update(ctx context.Context, id uuid.UUID, post models.Post) (models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.posts[id]
	if !ok {
		return models.Post{}, storage.ErrPostNotFound
	}
	existing.Title = post.Title
	existing.Content = post.Content
	r.posts[id] = existing
	return existing, nil
}

func (r *memPosts) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type memComments struct {
	mu       sync.Mutex
	comments map[uuid.UUID]models.Comment
}

func newMemComments() *memComments {
	return &memComments{comments: make(map[uuid.UUID]models.Comment)}
}

func (r *memComments) Create(ctx context.Context, comment models.Comment) (models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = uuid.New()
	r.comments[comment.ID] = comment
	return comment, nil
}

func (r *memComments) List(ctx context.Context, filter map[string]any) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comments := []models.Comment{}
	for _, cm := range r.comments {
		if postID, ok := filter["post_id"]; ok && cm.PostID != postID {
			continue
		}
		if sender, ok := filter["sender_id"]; ok && cm.Sender != sender {
			continue
		}
		comments = append(comments, cm)
	}
	return comments, nil
}

func (r *memComments) GetByID(ctx context.Context, id uuid.UUID) (models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cm, ok := r.comments[id]
	if !ok {
		return models.Comment{}, storage.ErrCommentNotFound
	}
	return cm, nil
}

func (r *memComments) Update(ctx context.Context, id uuid.UUID, comment models.Comment) (models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.comments[id]
	if !ok {
		return models.Comment{}, storage.ErrCommentNotFound
	}
	existing.Message = comment.Message
	r.comments[id] = existing
	return existing, nil
}

func (r *memComments) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *appjwt.Manager) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := appjwt.NewManager("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	users := newMemUsers()
	authService := auth.New(log, users, tokens)
	userService := usersvc.NewUserService(log, users)

	routers := transporthttp.NewRouter(log, authService, userService)

	posts := crud.NewHandler(crud.Config[models.Post]{
		Log:  log,
		Name: "post",
		Repo: newMemPosts(),
		Owner: func(p models.Post) uuid.UUID {
			return p.Sender
		},
		SetOwner: func(p *models.Post, owner uuid.UUID) {
			p.Sender = owner
		},
		Filters:  map[string]string{"sender": "sender_id"},
		NotFound: storage.ErrPostNotFound,
	})

	comments := crud.NewHandler(crud.Config[models.Comment]{
		Log:  log,
		Name: "comment",
		Repo: newMemComments(),
		Owner: func(c models.Comment) uuid.UUID {
			return c.Sender
		},
		SetOwner: func(c *models.Comment, owner uuid.UUID) {
			c.Sender = owner
		},
		Filters:  map[string]string{"postId": "post_id", "sender": "sender_id"},
		NotFound: storage.ErrCommentNotFound,
	})

	server := httpapp.New(log, tokens, "localhost", "0", routers, posts, comments)
	server.BuildRouters()

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return ts, tokens
}

func doJSON(t *testing.T, method, url string, body any, bearer string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}

	return resp, parsed
}

func registerUser(t *testing.T, ts *httptest.Server) (email, password string, body map[string]any) {
	t.Helper()

	email = gofakeit.Email()
	password = gofakeit.Password(true, true, true, true, false, 12)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/auth/register", map[string]any{
		"username": gofakeit.Username(),
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return email, password, body
}

func TestRegister(t *testing.T) {
	ts, tokens := newTestServer(t)

	_, _, body := registerUser(t, ts)

	require.NotEmpty(t, body["accessToken"])
	require.NotEmpty(t, body["refreshToken"])
	require.NotEmpty(t, body["_id"])

	subject, err := tokens.ParseAccess(body["accessToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, body["_id"].(string), subject.String())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts, _ := newTestServer(t)

	email, password, _ := registerUser(t, ts)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/auth/register", map[string]any{
		"username": gofakeit.Username(),
		"email":    email,
		"password": password,
	}, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "user_already_exists", body["error"])
}

func TestRegister_MissingFields(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/register", map[string]any{
		"email": gofakeit.Email(),
	}, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	ts, tokens := newTestServer(t)

	email, password, regBody := registerUser(t, ts)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, regBody["_id"], body["_id"])

	subject, err := tokens.ParseRefresh(body["refreshToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, regBody["_id"].(string), subject.String())
}

// Wrong password and unknown email must be indistinguishable.
func TestLogin_ErrorShapeDoesNotLeak(t *testing.T) {
	ts, _ := newTestServer(t)

	email, _, _ := registerUser(t, ts)

	wrongPass, wrongPassBody := doJSON(t, http.MethodPost, ts.URL+"/auth/login", map[string]any{
		"email":    email,
		"password": "totally-wrong-pass",
	}, "")
	noUser, noUserBody := doJSON(t, http.MethodPost, ts.URL+"/auth/login", map[string]any{
		"email":    gofakeit.Email(),
		"password": "totally-wrong-pass",
	}, "")

	assert.Equal(t, http.StatusBadRequest, wrongPass.StatusCode)
	assert.Equal(t, http.StatusBadRequest, noUser.StatusCode)
	assert.Equal(t, wrongPassBody, noUserBody)
}

func TestRefresh_Rotation(t *testing.T) {
	ts, _ := newTestServer(t)

	_, _, regBody := registerUser(t, ts)
	tokenA := regBody["refreshToken"].(string)

	resp, bodyB := doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", map[string]any{
		"refreshToken": tokenA,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tokenB := bodyB["refreshToken"].(string)
	require.NotEqual(t, tokenA, tokenB)

	// replaying the consumed token trips reuse detection
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", map[string]any{
		"refreshToken": tokenA,
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// which revoked the replacement too
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", map[string]any{
		"refreshToken": tokenB,
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRefresh_MissingToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefresh_GarbageToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", map[string]any{
		"refreshToken": "not.a.token",
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogout_Idempotent(t *testing.T) {
	ts, _ := newTestServer(t)

	_, _, regBody := registerUser(t, ts)
	token := regBody["refreshToken"].(string)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/logout", map[string]any{
		"refreshToken": token,
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/logout", map[string]any{
		"refreshToken": token,
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the logged-out token can no longer refresh
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", map[string]any{
		"refreshToken": token,
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogout_InvalidToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/logout", map[string]any{
		"refreshToken": "garbage",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	ts, _ := newTestServer(t)

	email, password, regBody := registerUser(t, ts)
	access := regBody["accessToken"].(string)
	newPassword := gofakeit.Password(true, true, true, true, false, 12)

	// no bearer
	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/auth/change-password", map[string]any{
		"oldPassword": password,
		"newPassword": newPassword,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// wrong old password
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/auth/change-password", map[string]any{
		"oldPassword": "wrong-old-password",
		"newPassword": newPassword,
	}, access)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/auth/change-password", map[string]any{
		"oldPassword": password,
		"newPassword": newPassword,
	}, access)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// old password no longer authenticates, new one does
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/login", map[string]any{
		"email":    email,
		"password": newPassword,
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// change-password revoked the registration session's refresh token
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/auth/refresh", map[string]any{
		"refreshToken": regBody["refreshToken"].(string),
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUsers_CreateDisabled(t *testing.T) {
	ts, _ := newTestServer(t)

	_, _, regBody := registerUser(t, ts)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/users", map[string]any{
		"username": gofakeit.Username(),
	}, regBody["accessToken"].(string))

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestUsers_RequireAuth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsers_UpdateForeignProfileDenied(t *testing.T) {
	ts, _ := newTestServer(t)

	_, _, alice := registerUser(t, ts)
	_, _, bob := registerUser(t, ts)

	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/users/"+bob["_id"].(string), map[string]any{
		"username": "hijacked",
	}, alice["accessToken"].(string))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/users/"+alice["_id"].(string), map[string]any{
		"username": "renamed",
	}, alice["accessToken"].(string))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "renamed", body["username"])
}

func TestUsers_DeleteOwnAccountOnly(t *testing.T) {
	ts, _ := newTestServer(t)

	_, _, alice := registerUser(t, ts)
	_, _, bob := registerUser(t, ts)

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/users/"+bob["_id"].(string), nil, alice["accessToken"].(string))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/users/"+alice["_id"].(string), nil, alice["accessToken"].(string))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPosts_OwnershipFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	_, _, alice := registerUser(t, ts)
	_, _, bob := registerUser(t, ts)
	aliceToken := alice["accessToken"].(string)
	bobToken := bob["accessToken"].(string)

	// anonymous create is rejected
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/posts", map[string]any{
		"title": "first post",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, post := doJSON(t, http.MethodPost, ts.URL+"/posts", map[string]any{
		"title":   "first post",
		"content": "hello",
	}, aliceToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, alice["_id"], post["sender"])

	postID := post["_id"].(string)

	// reads are public
	resp, got := doJSON(t, http.MethodGet, ts.URL+"/posts/"+postID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "first post", got["title"])

	// foreign mutation is denied
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/posts/"+postID, map[string]any{
		"title": "stolen",
	}, bobToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, updated := doJSON(t, http.MethodPut, ts.URL+"/posts/"+postID, map[string]any{
		"title":   "edited",
		"content": "hello again",
	}, aliceToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "edited", updated["title"])

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/posts/"+postID, nil, bobToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/posts/"+postID, nil, aliceToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/posts/"+postID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPosts_ListFilterBySender(t *testing.T) {
	ts, _ := newTestServer(t)

	_, _, alice := registerUser(t, ts)
	_, _, bob := registerUser(t, ts)

	for _, owner := range []map[string]any{alice, alice, bob} {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/posts", map[string]any{
			"title": gofakeit.Sentence(3),
		}, owner["accessToken"].(string))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/posts?sender="+alice["_id"].(string), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, 2)
}

func TestComments_Flow(t *testing.T) {
	ts, _ := newTestServer(t)

	_, _, alice := registerUser(t, ts)
	aliceToken := alice["accessToken"].(string)

	resp, post := doJSON(t, http.MethodPost, ts.URL+"/posts", map[string]any{
		"title": "commented post",
	}, aliceToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, comment := doJSON(t, http.MethodPost, ts.URL+"/comments", map[string]any{
		"message": "nice post",
		"postId":  post["_id"],
	}, aliceToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, alice["_id"], comment["sender"])

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/comments?postId="+post["_id"].(string), nil)
	require.NoError(t, err)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var comments []models.Comment
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&comments))
	assert.Len(t, comments, 1)
}
