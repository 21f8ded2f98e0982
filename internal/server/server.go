// Package server assembles the HTTP surface: stores, domain services,
// handlers and middleware behind one router.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/calendar"
	"github.com/dukerupert/tourmate/internal/handler"
	"github.com/dukerupert/tourmate/internal/middleware"
	"github.com/dukerupert/tourmate/internal/notify"
	"github.com/dukerupert/tourmate/internal/push"
	"github.com/dukerupert/tourmate/internal/recommend"
	"github.com/dukerupert/tourmate/internal/social"
	"github.com/dukerupert/tourmate/internal/store"
	ws "github.com/dukerupert/tourmate/internal/websocket"
)

// Options carries the process-level dependencies the router is built from.
type Options struct {
	DB             *sql.DB
	Hub            *ws.Hub
	Sink           notify.Sink
	Cache          recommend.TopNCache
	TopN           int
	TargetPolicy   calendar.TargetPolicy
	Tokens         *auth.TokenIssuer
	Push           *push.Service // nil when web push is not configured
	LoginLimiter   *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	tokens         *auth.TokenIssuer
	loginLimiter   *middleware.RateLimiter
	allowedOrigins []string

	authH         *handler.AuthHandler
	followH       *handler.FollowHandler
	calendarH     *handler.CalendarHandler
	shareH        *handler.ShareHandler
	placeH        *handler.PlaceHandler
	favoriteH     *handler.FavoriteHandler
	commentH      *handler.CommentHandler
	preferenceH   *handler.PreferenceHandler
	notificationH *handler.NotificationHandler
	pushH         *handler.PushHandler

	logger *slog.Logger
}

func New(opts Options) *Server {
	db, logger := opts.DB, opts.Logger
	sink := opts.Sink
	if sink == nil {
		sink = notify.Discard
	}

	placeStore := store.NewPlaceStore(db)
	prefStore := store.NewPreferenceStore(db)

	socialSvc := social.NewService(db, sink, logger.With("component", "social"))
	calendarSvc := calendar.NewService(db, opts.TargetPolicy, sink, logger.With("component", "calendar"))
	engine := recommend.NewEngine(prefStore, placeStore, opts.Cache, opts.TopN, logger.With("component", "recommend"))

	return &Server{
		db:             db,
		hub:            opts.Hub,
		tokens:         opts.Tokens,
		loginLimiter:   opts.LoginLimiter,
		allowedOrigins: opts.AllowedOrigins,

		authH:         handler.NewAuthHandler(db, opts.Tokens, logger.With("component", "auth")),
		followH:       handler.NewFollowHandler(socialSvc, logger.With("component", "follow")),
		calendarH:     handler.NewCalendarHandler(calendarSvc, logger.With("component", "calendar_handler")),
		shareH:        handler.NewShareHandler(calendarSvc, logger.With("component", "share")),
		placeH:        handler.NewPlaceHandler(placeStore, engine, logger.With("component", "place")),
		favoriteH:     handler.NewFavoriteHandler(placeStore, store.NewFavoriteStore(db), logger.With("component", "favorite")),
		commentH:      handler.NewCommentHandler(placeStore, store.NewCommentStore(db), logger.With("component", "comment")),
		preferenceH:   handler.NewPreferenceHandler(prefStore, logger.With("component", "preference")),
		notificationH: handler.NewNotificationHandler(store.NewNotificationStore(db), logger.With("component", "notification")),
		pushH:         handler.NewPushHandler(store.NewPushStore(db), opts.Push, logger.With("component", "push_handler")),

		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /auth/register", s.rateLimited(s.authH.Register))
	outerMux.HandleFunc("POST /auth/login", s.rateLimited(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.Handler())

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", middleware.RequireAuth(s.tokens)(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	if s.loginLimiter == nil {
		return h
	}
	return middleware.RateLimit(s.loginLimiter, middleware.RealIP)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("PUT /api/me", s.authH.UpdateProfile)

	// Follow graph
	mux.HandleFunc("POST /api/follows/{id}", s.followH.Follow)
	mux.HandleFunc("DELETE /api/follows/{id}", s.followH.Unfollow)
	mux.HandleFunc("GET /api/follows/following", s.followH.Following)
	mux.HandleFunc("GET /api/follows/followers", s.followH.Followers)
	mux.HandleFunc("GET /api/follows/mutual/{id}", s.followH.Mutual)
	mux.HandleFunc("GET /api/users/search", s.followH.Search)

	// Calendars and events
	mux.HandleFunc("GET /api/calendars", s.calendarH.ListCalendars)
	mux.HandleFunc("POST /api/calendars", s.calendarH.CreateCalendar)
	mux.HandleFunc("GET /api/calendars/{id}/events", s.calendarH.ListEvents)
	mux.HandleFunc("POST /api/calendars/{id}/events", s.calendarH.CreateEvent)
	mux.HandleFunc("PUT /api/events/{id}", s.calendarH.UpdateEvent)
	mux.HandleFunc("DELETE /api/events/{id}", s.calendarH.DeleteEvent)

	// Share requests
	mux.HandleFunc("POST /api/shares", s.shareH.Create)
	mux.HandleFunc("GET /api/shares/incoming", s.shareH.Incoming)
	mux.HandleFunc("POST /api/shares/{id}/respond", s.shareH.Respond)

	// Places and preferences
	mux.HandleFunc("GET /api/places", s.placeH.List)
	mux.HandleFunc("GET /api/places/{id}", s.placeH.Get)
	mux.HandleFunc("GET /api/places/{id}/scores", s.placeH.Scores)
	mux.HandleFunc("GET /api/places/{id}/comments", s.commentH.List)
	mux.HandleFunc("POST /api/places/{id}/comments", s.commentH.Create)
	mux.HandleFunc("DELETE /api/places/{id}/comments/{comment_id}", s.commentH.Delete)
	mux.HandleFunc("POST /api/favorites/places/{id}", s.favoriteH.Toggle)
	mux.HandleFunc("GET /api/favorites/places", s.favoriteH.List)
	mux.HandleFunc("GET /api/favorites/places/ids", s.favoriteH.IDs)
	mux.HandleFunc("GET /api/preferences", s.preferenceH.Get)
	mux.HandleFunc("PUT /api/preferences", s.preferenceH.Put)
	mux.HandleFunc("DELETE /api/preferences", s.preferenceH.Delete)

	// Notifications
	mux.HandleFunc("GET /api/notifications", s.notificationH.List)
	mux.HandleFunc("POST /api/notifications/read-all", s.notificationH.MarkAllRead)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.notificationH.MarkRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.notificationH.Delete)

	// Push subscriptions
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.allowedOrigins, s.logger.With("component", "websocket")))
}
