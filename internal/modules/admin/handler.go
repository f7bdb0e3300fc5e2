package admin

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/httpx"
)

// CookieSettings controls the admin session cookie attributes.
type CookieSettings struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
}

// CookieSettingsFor returns the cookie policy for an environment. Local
// development runs over plain HTTP, so Secure is dropped and SameSite relaxed.
func CookieSettingsFor(name string, development bool) CookieSettings {
	if development {
		return CookieSettings{Name: name, Secure: false, SameSite: http.SameSiteLaxMode}
	}
	return CookieSettings{Name: name, Secure: true, SameSite: http.SameSiteStrictMode}
}

type Handler struct {
	service Service
	cookie  CookieSettings
	log     *zap.Logger
}

func NewHandler(service Service, cookie CookieSettings, log *zap.Logger) *Handler {
	return &Handler{service: service, cookie: cookie, log: log}
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/admin/auth/login", h.login)
	r.Post("/admin/auth/logout", h.logout)
}

// RegisterRoutes mounts the endpoints that require RequireSession.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/auth/me", h.me)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var req request
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}

	a, token, expiresAt, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeUnauthorized) {
			h.log.Warn("admin login failed", zap.String("email", req.Email))
		}
		httpx.WriteError(w, r, h.log, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, expiresAt))
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"admin": a})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	a := FromContext(r.Context())
	if a == nil {
		httpx.WriteError(w, r, h.log, apperr.Unauthorized("authentication required"))
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"admin": a})
}

func (h *Handler) sessionCookie(value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	}
}
