package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayfarerhq/wayfarer/internal/auth/service"
	"github.com/wayfarerhq/wayfarer/pkg/authsdk"
	"github.com/wayfarerhq/wayfarer/pkg/httpx"
	"github.com/wayfarerhq/wayfarer/pkg/slogx"
)

type RegisterHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// ServeHTTP handles account registration.
//
//	@Summary		Register a new account
//	@Description	Creates an account and returns an initial token pair so the client is signed in immediately.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	authsdk.TokenResponse	"Access and refresh tokens"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed request"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email already registered"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.Register(ctx, service.RegisterParams{
		Email:     req.EmailAddress,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			authsdk.ErrEmailTaken.WriteError(w)
		case errors.Is(err, service.ErrInvalidRequest):
			authsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("registration failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, u)
	if err != nil {
		log.Error("failed to issue tokens after registration", "user_id", u.ID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, tokenResponse(pair))
}
