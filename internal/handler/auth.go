package handler

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/tourmate/internal/apperr"
	"github.com/dukerupert/tourmate/internal/auth"
	"github.com/dukerupert/tourmate/internal/store"
)

const defaultCalendarName = "My calendar"

type AuthHandler struct {
	db     *sql.DB
	users  *store.UserStore
	tokens *auth.TokenIssuer
	logger *slog.Logger
}

func NewAuthHandler(db *sql.DB, tokens *auth.TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{db: db, users: store.NewUserStore(db), tokens: tokens, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Nickname string `json:"nickname" validate:"required,min=2,max=30"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Nickname = strings.TrimSpace(req.Nickname)

	ctx := r.Context()
	taken, err := h.users.EmailOrNicknameTaken(ctx, req.Email, req.Nickname)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if taken {
		writeError(w, h.logger, r, apperr.ErrEmailTaken)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, h.logger, r, fmt.Errorf("hash password: %w", err))
		return
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		writeError(w, h.logger, r, fmt.Errorf("begin tx: %w", err))
		return
	}
	defer tx.Rollback()

	user, err := store.NewUserStore(tx).Create(ctx, req.Email, req.Nickname, string(hash))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if _, err := store.NewCalendarStore(tx).Create(ctx, user.ID, defaultCalendarName); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, h.logger, r, fmt.Errorf("commit: %w", err))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Nickname)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	h.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, h.logger, r, apperr.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Nickname)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// Me handles GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if user == nil {
		writeError(w, h.logger, r, apperr.ErrUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type profileRequest struct {
	Nickname string `json:"nickname" validate:"required,min=2,max=30"`
	Region   string `json:"region" validate:"max=100"`
}

// UpdateProfile handles PUT /api/me
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	ctx := r.Context()
	userID := auth.UserID(ctx)

	current, err := h.users.GetByID(ctx, userID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if current == nil {
		writeError(w, h.logger, r, apperr.ErrUserNotFound)
		return
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname != current.Nickname {
		taken, err := h.users.EmailOrNicknameTaken(ctx, "", nickname)
		if err != nil {
			writeError(w, h.logger, r, err)
			return
		}
		if taken {
			writeError(w, h.logger, r, apperr.ErrEmailTaken)
			return
		}
	}

	user, err := h.users.UpdateProfile(ctx, userID, nickname, strings.TrimSpace(req.Region))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
