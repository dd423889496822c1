package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server combines all handlers.
type Server struct {
	*UserHandler
	*PostsHandler
	*UploadHandler
	*CommentsHandler
	*HealthHandler
}

func NewServer(
	userHandler *UserHandler,
	postsHandler *PostsHandler,
	uploadHandler *UploadHandler,
	commentsHandler *CommentsHandler,
	healthHandler *HealthHandler,
) *Server {
	return &Server{
		UserHandler:     userHandler,
		PostsHandler:    postsHandler,
		UploadHandler:   uploadHandler,
		CommentsHandler: commentsHandler,
		HealthHandler:   healthHandler,
	}
}

// Auth holds the two authentication stages. JWT verifies the bearer token;
// Resolve maps its subject to an internal user and must run after JWT.
type Auth struct {
	JWT     func(http.Handler) http.Handler
	Resolve func(http.Handler) http.Handler
}

// Mount registers every route under /api/v1 on r.
func (s *Server) Mount(r chi.Router, auth Auth) {
	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Get("/health/live", s.GetLiveness)
		r.Get("/health/ready", s.GetReadiness)

		// The user record does not exist yet, so no subject resolution.
		r.With(auth.JWT).Post("/users", s.ProvisionUser)

		r.Group(func(r chi.Router) {
			r.Use(auth.JWT, auth.Resolve)

			r.Get("/users/me", s.GetUserData)
			r.Put("/users/me", s.UpdateProfile)
			r.Put("/users/me/username", s.ChangeUsername)
			r.Get("/users/search", s.SearchUsers)
			r.Get("/users/{username}", s.GetProfile)
			r.Get("/users/{username}/following", s.IsFollowing)
			r.Post("/users/{username}/follow", s.ToggleFollow)

			r.Post("/uploads", s.RequestUpload)
			r.Get("/media/{id}", s.GetMediaURL)

			r.Get("/posts", s.ListRecentPosts)
			r.Get("/posts/latest", s.GetLatestPost)
			r.Post("/posts", s.CreatePost)
			r.Get("/posts/{id}", s.GetPost)
			r.Put("/posts/{id}", s.UpdatePost)
			r.Delete("/posts/{id}", s.DeletePost)
			r.Post("/posts/{id}/like", s.ToggleLike)
			r.Get("/posts/{id}/comments", s.ListComments)
			r.Post("/posts/{id}/comments", s.CreateComment)

			r.Post("/comments/{id}/like", s.ToggleCommentLike)
			r.Delete("/comments/{id}", s.DeleteComment)
		})
	})
}
