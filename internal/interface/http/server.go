// Package http implements the JSON API of the merit portal: authentication,
// the student cabinet, the counselor review desk, and the admin surface.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gradpath/merit-portal/internal/application/command"
	"github.com/gradpath/merit-portal/internal/application/query"
	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/interface/http/handlers"
	"github.com/gradpath/merit-portal/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds the HTTP server settings.
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// EnableCORS and AllowedOrigins gate cross-origin access; origins
	// are matched exactly, "*" allows any.
	EnableCORS     bool
	AllowedOrigins []string

	// RateLimitPerMinute caps requests per client IP; zero disables
	// the limiter.
	RateLimitPerMinute int

	// SessionCookie names the login cookie; SecureCookies marks it
	// Secure for HTTPS-only deployments.
	SessionCookie string
	SecureCookies bool
}

// DefaultConfig listens on :8080 with 15s read/write timeouts and a
// 300 req/min per-IP limit.
func DefaultConfig() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               8080,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxHeaderBytes:     1 << 20,
		RateLimitPerMinute: 300,
		SessionCookie:      "merit_session",
	}
}

// Address renders the listen address as "host:port".
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains all dependencies required by HTTP handlers.
type Dependencies struct {
	// Command Handlers (CQRS Write Side)
	LoginHandler             *command.LoginHandler
	LogoutHandler            *command.LogoutHandler
	RegisterStudentHandler   *command.RegisterStudentHandler
	RegisterCounselorHandler *command.RegisterCounselorHandler
	CreateSubmissionHandler  *command.CreateSubmissionHandler
	DeleteSubmissionHandler  *command.DeleteSubmissionHandler
	ReviewSubmissionHandler  *command.ReviewSubmissionHandler
	SetAcademicScoreHandler  *command.SetAcademicScoreHandler
	ManageRulesHandler       *command.ManageRulesHandler
	UpdateProfileHandler     *command.UpdateProfileHandler
	MarkNotificationHandler  *command.MarkNotificationReadHandler
	AdminUsersHandler        *command.AdminUsersHandler

	// Query Handlers (CQRS Read Side)
	GetIdentityHandler         *query.GetIdentityHandler
	GetStudentRankHandler      *query.GetStudentRankHandler
	ListStudentsHandler        *query.ListStudentsHandler
	ListOwnSubmissionsHandler  *query.ListOwnSubmissionsHandler
	ListCohortSubsHandler      *query.ListCohortSubmissionsHandler
	ListRulesHandler           *query.ListRulesHandler
	ListNotificationsHandler   *query.ListNotificationsHandler
	CounselorDashboardHandler  *query.CounselorDashboardHandler
	ExportStudentsHandler      *query.ExportStudentsHandler

	// Logger
	Logger *logger.Logger

	// Health Check Dependencies
	HealthChecker handlers.HealthChecker
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	logger     *logger.Logger

	// Middleware state
	rateLimiter *rateLimiter

	// Server state
	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		router: http.NewServeMux(),
		logger: deps.Logger,
	}

	if s.logger == nil {
		s.logger = logger.Default()
	}
	if s.config.SessionCookie == "" {
		s.config.SessionCookie = "merit_session"
	}

	if config.RateLimitPerMinute > 0 {
		s.rateLimiter = newRateLimiter(config.RateLimitPerMinute, time.Minute)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.buildMiddlewareChain(s.router),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /live", s.handleLive)
	s.router.HandleFunc("GET /", s.handleRoot)

	// ─────────────────────────────────────────────────────────────────────────
	// Authentication
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.router.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)
	s.router.HandleFunc("POST /api/v1/auth/register/student", s.handleRegisterStudent)
	s.router.HandleFunc("POST /api/v1/auth/register/counselor", s.handleRegisterCounselor)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated: any role
	// ─────────────────────────────────────────────────────────────────────────
	s.router.Handle("GET /api/v1/me", s.authenticated(s.handleMe))
	s.router.Handle("GET /api/v1/rules", s.authenticated(s.handleListRules))
	s.router.Handle("GET /api/v1/me/notifications", s.authenticated(s.handleListNotifications))
	s.router.Handle("POST /api/v1/me/notifications/{id}/read", s.authenticated(s.handleMarkNotificationRead))
	s.router.Handle("POST /api/v1/me/notifications/read-all", s.authenticated(s.handleMarkAllNotificationsRead))

	// ─────────────────────────────────────────────────────────────────────────
	// Student cabinet
	// ─────────────────────────────────────────────────────────────────────────
	s.router.Handle("GET /api/v1/me/rank", s.requireRole(identity.RoleStudent, s.handleMyRank))
	s.router.Handle("PUT /api/v1/me/profile", s.requireRole(identity.RoleStudent, s.handleUpdateProfile))
	s.router.Handle("GET /api/v1/me/submissions", s.requireRole(identity.RoleStudent, s.handleMySubmissions))
	s.router.Handle("POST /api/v1/me/submissions", s.requireRole(identity.RoleStudent, s.handleCreateSubmission))
	s.router.Handle("DELETE /api/v1/me/submissions/{id}", s.requireRole(identity.RoleStudent, s.handleDeleteSubmission))

	// ─────────────────────────────────────────────────────────────────────────
	// Counselor review desk (scoped to the counselor's cohort)
	// ─────────────────────────────────────────────────────────────────────────
	s.router.Handle("GET /api/v1/cohort/dashboard", s.requireRole(identity.RoleCounselor, s.handleDashboard))
	s.router.Handle("GET /api/v1/cohort/students", s.requireRole(identity.RoleCounselor, s.handleCohortStudents))
	s.router.Handle("GET /api/v1/cohort/students/export", s.requireRole(identity.RoleCounselor, s.handleExportStudents))
	s.router.Handle("GET /api/v1/cohort/students/{id}/rank", s.requireRole(identity.RoleCounselor, s.handleStudentRank))
	s.router.Handle("PUT /api/v1/cohort/students/{id}/academic-score", s.requireRole(identity.RoleCounselor, s.handleSetAcademicScore))
	s.router.Handle("GET /api/v1/cohort/submissions", s.requireRole(identity.RoleCounselor, s.handleCohortSubmissions))
	s.router.Handle("POST /api/v1/cohort/submissions/{id}/review", s.requireRole(identity.RoleCounselor, s.handleReviewSubmission))
	s.router.Handle("POST /api/v1/rules", s.requireRole(identity.RoleCounselor, s.handleCreateRule))
	s.router.Handle("PUT /api/v1/rules/{id}", s.requireRole(identity.RoleCounselor, s.handleUpdateRule))
	s.router.Handle("DELETE /api/v1/rules/{id}", s.requireRole(identity.RoleCounselor, s.handleDeleteRule))

	// ─────────────────────────────────────────────────────────────────────────
	// Admin surface
	// ─────────────────────────────────────────────────────────────────────────
	s.router.Handle("GET /api/v1/admin/students", s.requireRole(identity.RoleAdmin, s.handleAdminListStudents))
	s.router.Handle("PUT /api/v1/admin/students/{id}", s.requireRole(identity.RoleAdmin, s.handleAdminEditStudent))
	s.router.Handle("DELETE /api/v1/admin/users/{id}", s.requireRole(identity.RoleAdmin, s.handleAdminDeleteUser))
	s.router.Handle("POST /api/v1/admin/accounts/{id}/password", s.requireRole(identity.RoleAdmin, s.handleAdminResetPassword))
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain stacks the middleware around the router. Listed
// innermost first; the rate limiter ends up outermost so rejected
// requests never reach the rest of the stack.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	h := handlers.ChainHandler(handler,
		handlers.RequestSizeLimitMiddleware(1<<20),
		handlers.NoCacheMiddleware,
		handlers.SecurityHeadersMiddleware,
	)
	h = s.requestIDMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.recoveryMiddleware(h)
	if s.config.EnableCORS {
		h = s.corsMiddleware(h)
	}
	if s.rateLimiter != nil {
		h = s.rateLimitMiddleware(h)
	}
	return h
}

// requestIDMiddleware tags the request with the caller's X-Request-ID
// or a fresh UUID, echoing it back in the response.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware writes one access-log line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rw.statusCode),
			logger.Int64("duration_ms", time.Since(start).Milliseconds()),
			logger.String("ip", getClientIP(r)),
			logger.String("request_id", getRequestID(r.Context())),
		)
	})
}

// recoveryMiddleware turns a handler panic into a logged 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered",
					logger.Any("error", err),
					logger.String("stack", string(debug.Stack())),
					logger.String("path", r.URL.Path),
					logger.String("request_id", getRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware answers preflights and stamps CORS headers for
// allowed origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, o := range s.config.AllowedOrigins {
			if o != "*" && o != origin {
				continue
			}
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Max-Age", "86400")
			break
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware rejects clients above the per-IP request budget.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(getClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

const contextKeyIdentity contextKey = "identity"

// identityHandler is a handler that receives the resolved identity.
type identityHandler func(w http.ResponseWriter, r *http.Request, id *identity.Identity)

// loginRoute is where soft denials send the caller.
const loginRoute = "/api/v1/auth/login"

// redirectToLogin answers a soft denial: 303 with the login route in
// Location. Доступ не ошибка сервера - просто нужна сессия с нужной ролью.
func redirectToLogin(w http.ResponseWriter, message string) {
	w.Header().Set("Location", loginRoute)
	writeJSONError(w, http.StatusSeeOther, "sign_in_required", message)
}

// authenticated resolves the session cookie into an identity. Requests
// without a live session are redirected to the login route.
func (s *Server) authenticated(next identityHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.resolveIdentity(r)
		if err != nil {
			redirectToLogin(w, "Sign in to continue")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyIdentity, id)
		next(w, r.WithContext(ctx), id)
	})
}

// requireRole additionally checks the account role. An authenticated caller
// with the wrong role gets the same soft denial as an anonymous one.
func (s *Server) requireRole(role identity.Role, next identityHandler) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
		if !roleAllowed(role, id) {
			redirectToLogin(w, "Sign in with an account that has access")
			return
		}
		next(w, r, id)
	})
}

// roleAllowed reports whether the identity satisfies the route's role.
func roleAllowed(role identity.Role, id *identity.Identity) bool {
	switch role {
	case identity.RoleStudent:
		return id.IsStudent()
	case identity.RoleCounselor:
		return id.IsCounselor()
	case identity.RoleAdmin:
		return id.IsAdmin()
	}
	return false
}

// resolveIdentity reads the session cookie and resolves it.
func (s *Server) resolveIdentity(r *http.Request) (*identity.Identity, error) {
	cookie, err := r.Cookie(s.config.SessionCookie)
	if err != nil {
		return nil, shared.ErrSessionNotFound
	}
	return s.deps.GetIdentityHandler.Handle(r.Context(), cookie.Value)
}

// setSessionCookie installs the session cookie on login.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie on logout.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start blocks serving requests until Shutdown. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Uptime reports how long the server has been serving; zero when
// stopped.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.config.Address()
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse is the envelope every endpoint answers with.
type JSONResponse struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResponseMeta holds pagination and timing metadata.
type ResponseMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version,omitempty"`
	TotalCount int       `json:"total_count,omitempty"`
	Page       int       `json:"page,omitempty"`
	PageSize   int       `json:"page_size,omitempty"`
}

func encodeResponse(w http.ResponseWriter, status int, response JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// writeJSON answers with data in the standard envelope.
func writeJSON(w http.ResponseWriter, status int, data any) {
	encodeResponse(w, status, JSONResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    &ResponseMeta{Timestamp: time.Now().UTC(), Version: "v1"},
	})
}

// writeJSONWithMeta answers with data plus caller-supplied pagination
// metadata and the request ID.
func writeJSONWithMeta(w http.ResponseWriter, r *http.Request, status int, data any, meta *ResponseMeta) {
	if meta == nil {
		meta = &ResponseMeta{}
	}
	meta.Timestamp = time.Now().UTC()
	meta.Version = "v1"

	encodeResponse(w, status, JSONResponse{
		Success:   status >= 200 && status < 300,
		Data:      data,
		Meta:      meta,
		RequestID: getRequestID(r.Context()),
	})
}

// writeJSONError answers with an error envelope.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	encodeResponse(w, status, JSONResponse{
		Error: &APIError{Code: code, Message: message},
		Meta:  &ResponseMeta{Timestamp: time.Now().UTC()},
	})
}

// writeDomainError maps a domain error onto an HTTP status.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", "Resource not found")
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case shared.IsAlreadyExists(err):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case shared.IsStateConflict(err):
		writeJSONError(w, http.StatusConflict, "state_conflict", err.Error())
	case shared.IsUnauthorized(err):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
	case shared.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
	default:
		s.logger.Error("request failed", logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER TYPES AND FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// responseWriter captures the status code for the access log.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP prefers proxy headers over RemoteAddr: first entry of
// X-Forwarded-For, then X-Real-IP, then the socket peer with its port
// stripped.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// getQueryParam reads a query parameter, falling back to defaultValue
// when absent.
func getQueryParam(r *http.Request, key, defaultValue string) string {
	if value := r.URL.Query().Get(key); value != "" {
		return value
	}
	return defaultValue
}

// getQueryParamInt reads an integer query parameter; unparsable or
// absent values fall back to defaultValue.
func getQueryParamInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getQueryParamBool treats "true", "1" and "yes" as true.
func getQueryParamBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// ══════════════════════════════════════════════════════════════════════════════

// rateLimiter is a sliding-window counter per client key. A background
// goroutine evicts keys that have gone quiet so the map does not grow
// with every IP ever seen.
type rateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go rl.evictLoop()
	return rl
}

// prune drops timestamps older than the window. Caller holds the lock.
func (rl *rateLimiter) prune(key string, cutoff time.Time) []time.Time {
	kept := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	rl.requests[key] = kept
	return kept
}

func (rl *rateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	recent := rl.prune(key, now.Add(-rl.window))
	if len(recent) >= rl.limit {
		return false
	}
	rl.requests[key] = append(recent, now)
	return true
}

func (rl *rateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for key := range rl.requests {
			if len(rl.prune(key, cutoff)) == 0 {
				delete(rl.requests, key)
			}
		}
		rl.mu.Unlock()
	}
}
