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

type PasswordResetHandler struct {
	ResetService *service.PasswordResetService
}

// HandleBegin starts the forgot-password flow.
//
//	@Summary		Request a password reset code
//	@Description	Emails a short single-use reset code to the address. Always returns 204; the response never reveals whether the address has an account.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	authsdk.PasswordResetRequest	true	"Account email"
//	@Success		204		"Reset code sent if the account exists"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed request"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/password-reset [post].
func (h *PasswordResetHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.EmailAddress == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.ResetService.Begin(ctx, req.EmailAddress); err != nil {
		log.Error("password reset begin failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleConfirm redeems a reset code.
//
//	@Summary		Confirm a password reset
//	@Description	Redeems an emailed code and sets the new password. All of the user's refresh tokens are disabled on success. Every redemption failure is the same invalid_code error.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	authsdk.PasswordResetConfirmRequest	true	"Email, code and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed request or invalid code"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/password-reset/confirm [post].
func (h *PasswordResetHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.EmailAddress == "" || req.Code == "" || req.NewPassword == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.ResetService.Confirm(ctx, req.EmailAddress, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetCode):
			authsdk.ErrInvalidCode.WriteError(w)
		case errors.Is(err, service.ErrInvalidRequest):
			authsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("password reset confirm failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
