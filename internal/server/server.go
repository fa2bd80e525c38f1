package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mfigueira/nossoapp/internal/handler"
	"github.com/mfigueira/nossoapp/internal/middleware"
	"github.com/mfigueira/nossoapp/internal/service"
	"github.com/mfigueira/nossoapp/internal/store"
	"github.com/mfigueira/nossoapp/internal/upload"
	ws "github.com/mfigueira/nossoapp/internal/websocket"
)

// Config carries the server's runtime options.
type Config struct {
	UploadDir     string
	SecureCookies bool
	StaticDir     string
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	coupleH      *handler.CoupleHandler
	profileH     *handler.ProfileHandler
	ledgerH      *handler.LedgerHandler
	taskH        *handler.TaskHandler
	rewardH      *handler.RewardHandler
	uploadsH     *handler.UploadsHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	cfg          Config
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	coupleStore := store.NewCoupleStore(db)
	sessionStore := store.NewSessionStore(db)
	taskStore := store.NewTaskStore(db)
	rewardStore := store.NewRewardStore(db)

	uploads := upload.NewManager(cfg.UploadDir, logger.With("component", "upload"))

	identity := service.NewIdentity(userStore, coupleStore, logger.With("component", "identity"))
	ledger := service.NewLedger(rewardStore)
	tasks := service.NewTasks(taskStore, userStore, logger.With("component", "tasks"))
	rewards := service.NewRewards(rewardStore, userStore, ledger, logger.With("component", "rewards"))

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(identity, ledger, userStore, coupleStore, sessionStore, cfg.SecureCookies, logger.With("component", "auth")),
		coupleH:      handler.NewCoupleHandler(identity, logger.With("component", "couple")),
		profileH:     handler.NewProfileHandler(identity, userStore, uploads, logger.With("component", "profile")),
		ledgerH:      handler.NewLedgerHandler(ledger, logger.With("component", "ledger")),
		taskH:        handler.NewTaskHandler(tasks, uploads, hub, logger.With("component", "task")),
		rewardH:      handler.NewRewardHandler(rewards, ledger, uploads, hub, logger.With("component", "reward")),
		uploadsH:     handler.NewUploadsHandler(uploads),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		cfg:          cfg,
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	if s.cfg.StaticDir != "" {
		outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	}

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/api/", authMiddleware(protectedMux))
	outerMux.Handle("/uploads/", authMiddleware(protectedMux))
	outerMux.Handle("/ws", authMiddleware(protectedMux))

	var h http.Handler = outerMux
	h = middleware.CSRF(s.cfg.SecureCookies)(h)
	h = middleware.SecurityHeaders(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return h
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Account
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("PUT /api/me", s.profileH.Update)
	mux.HandleFunc("POST /api/me/photo", s.profileH.Photo)

	// Couple pairing
	mux.HandleFunc("POST /api/couple", s.coupleH.Create)
	mux.HandleFunc("POST /api/couple/join", s.coupleH.Join)
	mux.HandleFunc("GET /api/partner", s.coupleH.Partner)
	mux.HandleFunc("GET /api/balance", s.ledgerH.Balance)

	// Tasks
	mux.HandleFunc("GET /api/tasks", s.taskH.Pending)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/tasks/created", s.taskH.Created)
	mux.HandleFunc("GET /api/tasks/history", s.taskH.History)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)

	// Rewards
	mux.HandleFunc("GET /api/rewards", s.rewardH.Suggestions)
	mux.HandleFunc("POST /api/rewards", s.rewardH.Suggest)
	mux.HandleFunc("GET /api/rewards/approvals", s.rewardH.Approvals)
	mux.HandleFunc("POST /api/rewards/{id}/decide", s.rewardH.Decide)
	mux.HandleFunc("DELETE /api/rewards/{id}", s.rewardH.Delete)
	mux.HandleFunc("GET /api/store", s.rewardH.Store)
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.rewardH.Redeem)

	// Vouchers
	mux.HandleFunc("GET /api/vouchers", s.rewardH.Vouchers)
	mux.HandleFunc("GET /api/vouchers/partner", s.rewardH.PartnerVouchers)
	mux.HandleFunc("POST /api/vouchers/{id}/use", s.rewardH.UseVoucher)

	// Photos
	mux.HandleFunc("GET /uploads/{path...}", s.uploadsH.Serve)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
