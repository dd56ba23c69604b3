package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keshan-spec/Discussion-Board-API/internal/auth"
	"github.com/keshan-spec/Discussion-Board-API/internal/config"
	"github.com/keshan-spec/Discussion-Board-API/internal/database"
	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/handlers"
	"github.com/keshan-spec/Discussion-Board-API/internal/middleware"
	"github.com/keshan-spec/Discussion-Board-API/internal/moderation"
	"github.com/keshan-spec/Discussion-Board-API/internal/render"
	"github.com/keshan-spec/Discussion-Board-API/internal/store"
)

type Server struct {
	cfg     config.Config
	log     *slog.Logger
	db      database.Service
	auth    *auth.Service
	handler *handlers.Handler
	closers []func()
}

// New wires the forum engine, auth and handlers on top of an open database.
func New(cfg config.Config, log *slog.Logger, db database.Service) (*Server, error) {
	gdb := db.GetDB()
	s := &Server{cfg: cfg, log: log, db: db}

	users := store.NewUsers(gdb)
	var (
		identity forum.IdentityLookup = users
		cached   *store.CachedIdentity
	)
	if cfg.AuthorCacheSize > 0 {
		var err error
		cached, err = store.NewCachedIdentity(users, cfg.AuthorCacheSize, cfg.AuthorCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("author cache: %w", err)
		}
		identity = cached
	}

	svc := forum.NewService(forum.Deps{
		Store:        store.NewPosts(gdb),
		PostVotes:    store.NewPostVotes(gdb),
		CommentVotes: store.NewCommentVotes(gdb),
		Identity:     identity,
		Profanity:    moderation.NewClassifier(),
		Sanitizer:    moderation.NewSanitizer(),
		Renderer:     render.NewMarkdown(),
		Logger:       log,
	})

	blacklist, err := s.blacklist(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.auth = auth.NewService(users, auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), blacklist, log)
	if cached != nil {
		s.auth.UseAuthorCache(cached)
	}

	s.handler = handlers.NewHandler(svc, s.auth, handlers.Paging{
		DefaultSize: cfg.PageSizeDefault,
		MaxSize:     cfg.PageSizeMax,
	})
	return s, nil
}

// blacklist picks Redis when configured, otherwise the database table with a purge job.
func (s *Server) blacklist(cfg config.Config) (auth.Blacklist, error) {
	if cfg.RedisURL != "" {
		bl, err := auth.NewRedisBlacklist(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = bl.Close() })
		s.log.Info("token blacklist in redis")
		return bl, nil
	}

	bl := auth.NewDBBlacklist(s.db.GetDB())
	c, err := auth.StartPurger(cfg.BlacklistPurge, bl, s.log)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() { <-c.Stop().Done() })
	return bl, nil
}

// HTTPServer returns the configured http.Server for the router.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}
}

// Close stops background jobs and releases clients. The database is closed by its owner.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(s.log))

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "x-access-token"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	requireAuth := middleware.AuthMiddleware(s.auth)
	{
		// Auth routes
		api.POST("/auth/register", s.handler.Auth.Register)
		api.POST("/auth/login", s.handler.Auth.Login)
		api.POST("/auth/logout", requireAuth, s.handler.Auth.Logout)
		api.GET("/auth/verify", requireAuth, s.handler.Auth.Verify)

		// Public reads
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/post/:id", s.handler.Post.GetPost)
		api.GET("/user/:id", s.handler.User.GetUserProfile)
		api.GET("/comment/:id/replies", s.handler.Comment.GetReplies)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/posts/me", s.handler.Post.GetMyPosts)
			protected.POST("/post", s.handler.Post.CreatePost)
			protected.PUT("/post/:id/close", s.handler.Post.ClosePost)
			protected.DELETE("/post/:id", s.handler.Post.DeletePost)
			protected.PUT("/post/:id/upvote", s.handler.Post.ToggleUpvote)
			protected.GET("/post/:id/upvote", s.handler.Post.UpvoteStatus)

			protected.POST("/post/:id/comment", s.handler.Comment.AddComment)
			protected.POST("/reply/:id", s.handler.Comment.AddReply)
			protected.DELETE("/comment/:id", s.handler.Comment.DeleteComment)
			protected.PUT("/comment/:id/upvote", s.handler.Comment.ToggleUpvote)
			protected.GET("/comment/:id/upvote", s.handler.Comment.UpvoteStatus)

			protected.GET("/users", s.handler.User.GetUsers)
			protected.POST("/users/find", s.handler.User.FindUsers)
			protected.PUT("/user/update", s.handler.User.UpdateUser)
			protected.PUT("/user/update/password", s.handler.User.UpdatePassword)
			protected.DELETE("/user/:id", s.handler.User.DeleteUser)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	stats := s.db.Health()
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}
