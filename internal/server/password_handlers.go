package server

import (
	"fmt"
	"log"
	"net/http"

	"mineconect/internal/auth"
	"mineconect/internal/i18n"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// handleForgotPassword always answers with the same body so callers cannot
// probe which emails are registered. Dispatch failures are only logged.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validateEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	ctx := r.Context()
	locale := i18n.LocaleFromRequest(r)

	user, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("forgot-password: lookup failed: %v", err)
	}
	if user != nil {
		token, err := s.Tokens.Issue(user.Email)
		if err != nil {
			log.Printf("forgot-password: token issue failed for %s: %v", user.Email, err)
		} else {
			resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.Config.BaseURL, token)
			content := i18n.PasswordResetEmail(locale, resetLink, int(auth.ResetTokenTTL.Hours()))
			if err := s.Mailer.Send(ctx, user.Email, content); err != nil {
				log.Printf("forgot-password: dispatch failed for %s: %v", user.Email, err)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If the email address exists, a password reset email has been sent with instructions.",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "Token is required")
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeFieldError(w, http.StatusBadRequest, err.Error(), "password")
		return
	}

	ctx := r.Context()
	emailAddr, err := s.Tokens.Validate(req.Token)
	if err != nil {
		// Expired and invalid read the same; a fresh link fixes both.
		writeError(w, http.StatusBadRequest, "Invalid or expired token. Request a new one.")
		return
	}

	user, err := s.Users.FindByEmail(ctx, emailAddr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	if user == nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired token. Request a new one.")
		return
	}

	hashed, err := s.Hasher.Hash(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if err := s.Users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		log.Printf("reset-password: update failed for %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	_ = s.Sessions.DeleteByUser(ctx, user.ID)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully."})
}
