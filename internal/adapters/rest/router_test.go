package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/philly/snapgram/internal/adapters/rest"
	"github.com/philly/snapgram/internal/adapters/rest/middleware"
	commentsapp "github.com/philly/snapgram/internal/comments/application"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/transaction"
	postsapp "github.com/philly/snapgram/internal/posts/application"
	"github.com/philly/snapgram/internal/testutil/memstore"
	usersapp "github.com/philly/snapgram/internal/users/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	store   *memstore.Store
	objects *memstore.Objects
	dbErr   error
	router  chi.Router
}

// fakeJWT trusts the bearer token as the subject.
func fakeJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subject == "" {
			middleware.WriteJSONError(w, middleware.ErrorCodeUnauthorized, "missing authentication token", http.StatusUnauthorized)
			return
		}
		ctx := middleware.WithJWTClaims(r.Context(), subject, subject+"@example.test")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newAPI(t *testing.T) *api {
	t.Helper()

	log := memstore.Logger()
	bus := eventbus.NewBus(log)
	t.Cleanup(bus.Wait)

	a := &api{store: memstore.New(), objects: memstore.NewObjects()}
	tx := transaction.Immediate{}

	users := usersapp.NewUserService(a.store.Users(), a.store.Profiles(), a.store.Edges(), tx, bus, log)
	posts := postsapp.NewPostsService(a.store.Posts(), a.store.Media(), a.objects, a.store.Edges(), tx, bus, log)
	uploads := postsapp.NewUploadService(a.store.Media(), a.objects, &memstore.Limiter{Budget: -1}, bus, log)
	comments := commentsapp.NewCommentsService(a.store.Comments(), a.store.Posts(), a.store.Edges(), tx, bus, log)

	base := rest.NewBaseHandler(log)
	checks := rest.HealthChecks{{Name: "database", Ping: func(context.Context) error { return a.dbErr }}}
	srv := rest.NewServer(
		rest.NewUserHandler(base, users),
		rest.NewPostsHandler(base, posts),
		rest.NewUploadHandler(base, uploads),
		rest.NewCommentsHandler(base, comments),
		rest.NewHealthHandler(base, "test", checks),
	)

	a.router = chi.NewRouter()
	srv.Mount(a.router, rest.Auth{
		JWT:     fakeJWT,
		Resolve: middleware.NewAuthAdapter(users, log).Middleware,
	})
	return a
}

func (a *api) do(t *testing.T, method, path, subject string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+subject)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *api) upload(t *testing.T, subject string) rest.UploadTicketResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/uploads", subject, rest.RequestUploadRequest{
		ContentType: "image/jpeg",
		SizeBytes:   2048,
		Checksum:    "n4bQgYhMfWWaL+qgxVrQFaO/TxsrC4Is0V1sFbDwCgg=",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[rest.UploadResponse](t, rec)
	require.NotNil(t, resp.Success, resp.Failure)
	return *resp.Success
}

func (a *api) createPost(t *testing.T, subject, caption string) rest.PostResponse {
	t.Helper()
	ticket := a.upload(t, subject)
	rec := a.do(t, http.MethodPost, "/posts", subject, rest.CreatePostRequest{MediaID: ticket.MediaID, Caption: caption})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeAs[rest.PostResponse](t, rec)
}

const (
	alice = "ext|alice"
	bob   = "ext|bob"
)

func TestAuthentication(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, "/users/me", "ext|stranger", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "POST /api/v1/users", decodeBody(t, rec)["provision"])

	rec = a.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProvisionAndUserData(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodPost, "/users", "ext|new", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeAs[rest.UserResponse](t, rec)
	assert.Equal(t, "ext|new@example.test", created.Email)

	// Provisioning twice returns the same record.
	rec = a.do(t, http.MethodPost, "/users", "ext|new", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, created.ID, decodeAs[rest.UserResponse](t, rec).ID)

	rec = a.do(t, http.MethodPut, "/users/me/username", "ext|new", rest.ChangeUsernameRequest{Username: "newbie"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/users/me", "ext|new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeAs[rest.UserDataResponse](t, rec)
	require.NotNil(t, data.User)
	assert.Equal(t, "newbie", data.User.User.Username)
	assert.Empty(t, data.User.Followers)
}

func TestChangeUsernameFailures(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")
	a.store.AddUser("bob")

	tests := []struct {
		name     string
		username string
		status   int
		bizCode  string
	}{
		{"reserved", "explore", http.StatusConflict, "USERNAME_RESERVED"},
		{"taken", "bob", http.StatusConflict, "USERNAME_TAKEN"},
		{"bad format", "a!", http.StatusBadRequest, "INVALID_USERNAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPut, "/users/me/username", alice, rest.ChangeUsernameRequest{Username: tt.username})
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.bizCode, decodeBody(t, rec)["business_code"])
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")

	bio := "<b>film</b> photographer"
	rec := a.do(t, http.MethodPut, "/users/me", alice, rest.UpdateProfileRequest{Bio: &bio})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := decodeAs[rest.UserResponse](t, rec)
	assert.Equal(t, "film photographer", user.Bio)
	assert.Equal(t, "alice", user.Username)
}

func TestFollowEndpoints(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")
	a.store.AddUser("bob")

	rec := a.do(t, http.MethodPost, "/users/bob/follow", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "created", decodeBody(t, rec)["result"])

	rec = a.do(t, http.MethodGet, "/users/bob/following", alice, nil)
	assert.Equal(t, true, decodeBody(t, rec)["following"])

	rec = a.do(t, http.MethodGet, "/users/bob", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeAs[rest.ProfileResponse](t, rec)
	require.Len(t, profile.Followers, 1)
	assert.Equal(t, "alice", profile.Followers[0].Username)
	assert.Empty(t, profile.User.Email)

	rec = a.do(t, http.MethodPost, "/users/bob/follow", alice, nil)
	assert.Equal(t, "deleted", decodeBody(t, rec)["result"])

	rec = a.do(t, http.MethodPost, "/users/alice/follow", alice, nil)
	assert.Equal(t, "unchanged", decodeBody(t, rec)["result"])

	rec = a.do(t, http.MethodPost, "/users/ghost/follow", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "The user requested to follow does not exist.", decodeBody(t, rec)["message"])

	rec = a.do(t, http.MethodGet, "/users/ghost", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchUsers(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")
	a.store.AddUser("Alina")
	a.store.AddUser("bob")

	rec := a.do(t, http.MethodGet, "/users/search?q=AL", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	type searchResponse struct {
		Users []rest.ProfileResponse `json:"users"`
	}
	assert.Len(t, decodeAs[searchResponse](t, rec).Users, 2)

	rec = a.do(t, http.MethodGet, "/users/search?q=", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/users/search?q=zzz", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NO_USERS_FOUND", decodeBody(t, rec)["business_code"])
}

func TestUploadRejectionIsData(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")

	rec := a.do(t, http.MethodPost, "/uploads", alice, rest.RequestUploadRequest{
		ContentType: "application/pdf",
		SizeBytes:   10,
		Checksum:    "abc",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeAs[rest.UploadResponse](t, rec)
	assert.Nil(t, resp.Success)
	assert.Equal(t, "Invalid file type", resp.Failure)
	assert.NotContains(t, rec.Body.String(), "success")
}

func TestPostLifecycle(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")
	a.store.AddUser("bob")

	ticket := a.upload(t, alice)
	assert.True(t, strings.HasPrefix(ticket.URL, a.objects.BaseURL))

	rec := a.do(t, http.MethodPost, "/posts", bob, rest.CreatePostRequest{MediaID: ticket.MediaID, Caption: "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", decodeBody(t, rec)["business_code"])

	rec = a.do(t, http.MethodPost, "/posts", alice, rest.CreatePostRequest{MediaID: ticket.MediaID, Caption: "golden hour"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decodeAs[rest.PostResponse](t, rec)
	path := "/posts/" + post.ID.String()

	rec = a.do(t, http.MethodPost, path+"/like", bob, nil)
	assert.Equal(t, "created", decodeBody(t, rec)["result"])

	rec = a.do(t, http.MethodGet, path, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	details := decodeAs[rest.PostDetailsResponse](t, rec)
	assert.True(t, details.UserLiked)
	assert.False(t, details.CreatedByActor)
	assert.Len(t, details.Likes, 1)
	assert.Equal(t, "alice", details.Author.Username)
	assert.NotContains(t, details.MediaURL, "?")

	rec = a.do(t, http.MethodPut, path, bob, rest.UpdatePostRequest{Caption: "hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodPut, path, alice, rest.UpdatePostRequest{Caption: "blue hour"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "blue hour", decodeAs[rest.PostResponse](t, rec).Caption)

	rec = a.do(t, http.MethodGet, "/posts/latest", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, post.ID, decodeAs[rest.PostResponse](t, rec).ID)

	rec = a.do(t, http.MethodGet, "/media/"+ticket.MediaID.String(), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, details.MediaURL, decodeBody(t, rec)["url"])

	rec = a.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, a.objects.DeletedKeys(), 1)

	rec = a.do(t, http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", decodeBody(t, rec)["message"])
}

func TestPostRequestValidation(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")

	rec := a.do(t, http.MethodPost, "/posts", alice, map[string]string{"caption": "no media"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeBody(t, rec)["error"])

	rec = a.do(t, http.MethodGet, "/posts/not-a-uuid", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/posts?limit=many", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExploreFeed(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")
	first := a.createPost(t, alice, "first")
	second := a.createPost(t, alice, "second")

	rec := a.do(t, http.MethodGet, "/posts?limit=1", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decodeAs[rest.FeedResponse](t, rec)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, second.ID, feed.Posts[0].ID)

	rec = a.do(t, http.MethodGet, "/posts", alice, nil)
	feed = decodeAs[rest.FeedResponse](t, rec)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, first.ID, feed.Posts[1].ID)
}

func TestCommentEndpoints(t *testing.T) {
	a := newAPI(t)
	a.store.AddUser("alice")
	a.store.AddUser("bob")
	post := a.createPost(t, alice, "")
	path := "/posts/" + post.ID.String() + "/comments"

	rec := a.do(t, http.MethodPost, path, bob, rest.CreateCommentRequest{Text: "  nice  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := decodeAs[rest.CommentResponse](t, rec)
	assert.Equal(t, "nice", comment.Text)

	rec = a.do(t, http.MethodPost, path, bob, rest.CreateCommentRequest{Text: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/comments/"+comment.ID.String()+"/like", alice, nil)
	assert.Equal(t, "created", decodeBody(t, rec)["result"])

	rec = a.do(t, http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeAs[rest.CommentsResponse](t, rec)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, 1, list.Comments[0].LikeCount)
	assert.True(t, list.Comments[0].LikedByActor)
	assert.False(t, list.Comments[0].CreatedByActor)
	assert.Equal(t, "bob", list.Comments[0].Author.Username)

	rec = a.do(t, http.MethodDelete, "/comments/"+comment.ID.String(), alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodDelete, "/comments/"+comment.ID.String(), bob, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, path, alice, nil)
	assert.Empty(t, decodeAs[rest.CommentsResponse](t, rec).Comments)
}

func TestReadiness(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rest.StatusHealthy, decodeAs[rest.HealthResponse](t, rec).Status)

	a.dbErr = errors.New("connection refused")
	rec = a.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	health := decodeAs[rest.HealthResponse](t, rec)
	assert.Equal(t, rest.StatusUnhealthy, health.Status)
	assert.Equal(t, "down", health.Checks["database"])
}
