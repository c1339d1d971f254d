package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionCookie  = "session-token"
	stateCookie    = "oauth_state"
	callbackCookie = "oauth_callback"
	stateTTL       = 10 * time.Minute
)

type Handler struct {
	service Service
	baseURL string
	secure  bool
	log     *zap.Logger
}

// NewHandler creates the sign-in handler. baseURL is the public origin used to
// validate post sign-in redirects.
func NewHandler(service Service, baseURL string, log *zap.Logger) *Handler {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Handler{
		service: service,
		baseURL: baseURL,
		secure:  strings.HasPrefix(baseURL, "https://"),
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/auth", func(r chi.Router) {
		r.Get("/signin", h.signIn)
		r.Get("/callback/google", h.callback)
		r.Get("/session", h.session)
		r.Post("/signout", h.signOut)
	})
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	h.setCookie(w, stateCookie, state, stateTTL)
	h.setCookie(w, callbackCookie, SafeRedirect(h.baseURL, r.URL.Query().Get("callbackUrl")), stateTTL)
	http.Redirect(w, r, h.service.SignInURL(state), http.StatusFound)
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if providerErr := q.Get("error"); providerErr != "" {
		h.log.Info("sign in declined by provider", zap.String("error", providerErr))
		respond(w, http.StatusUnauthorized, map[string]string{"error": "Sign in failed"})
		return
	}

	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != q.Get("state") {
		respond(w, http.StatusBadRequest, map[string]string{"error": "Invalid sign in state"})
		return
	}

	identity, err := h.service.Authenticate(r.Context(), q.Get("code"))
	if err != nil {
		h.log.Warn("sign in failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respond(w, http.StatusUnauthorized, map[string]string{"error": "Sign in failed"})
		return
	}

	token, expires, err := h.service.IssueToken(identity)
	if err != nil {
		h.log.Error("issue session token", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]string{"error": "Sign in failed"})
		return
	}
	h.log.Info("signed in", zap.String("user_id", identity.ID), zap.String("email", identity.Email))

	h.setCookie(w, SessionCookie, token, time.Until(expires))
	h.clearCookie(w, stateCookie)
	h.clearCookie(w, callbackCookie)

	target := h.baseURL
	if c, err := r.Cookie(callbackCookie); err == nil {
		target = SafeRedirect(h.baseURL, c.Value)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	identity, ok := FromContext(r.Context())
	if !ok {
		respond(w, http.StatusOK, struct{}{})
		return
	}
	respond(w, http.StatusOK, map[string]*Identity{"user": identity})
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, SessionCookie)
	respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SafeRedirect returns target when it is a local path or points at the same
// origin as baseURL, and baseURL otherwise.
func SafeRedirect(baseURL, target string) string {
	if target == "" {
		return baseURL
	}
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\") {
		return baseURL + target
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != base.Scheme || u.Host != base.Host {
		return baseURL
	}
	return target
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
