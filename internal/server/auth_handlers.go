package server

import (
	"log"
	"net/http"

	"mineconect/internal/auth"
	"mineconect/internal/i18n"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"rol"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	role, roleErr := auth.ParseRole(req.Role)
	if !validateEmail(req.Email) || req.Password == "" || roleErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	ctx := r.Context()
	ip := clientIP(r, s.trustedProxies)

	user, err := s.verifier.Verify(ctx, req.Email, req.Password, role)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
			return
		}
		log.Printf("login: verify failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	now := s.now()
	sess := auth.NewSession(now, s.Config.SessionTTL)

	if s.Config.NoLoginChallenge {
		// Legacy direct login: no emailed code, session established at once.
		if err := s.Sessions.Establish(ctx, sess, user); err != nil {
			writeError(w, http.StatusInternalServerError, "SESSION_CREATE_FAILED")
			return
		}
		if err := s.Users.TouchLastLogin(ctx, user.ID); err != nil {
			log.Printf("login: touch last login failed for %s: %v", user.ID, err)
		}
		auth.SetSessionCookie(w, sess.ID, sess.ExpiresAt)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user": userPayload(user),
		})
		return
	}

	challenge := auth.NewChallenge(user.ID, now)

	// Dispatch before persisting the challenge so a code that was never
	// delivered can never be validated.
	locale := i18n.LocaleFromRequest(r)
	content := i18n.LoginCodeEmail(locale, challenge.Code, int(auth.ChallengeTTL.Minutes()))
	if err := s.Mailer.Send(ctx, user.Email, content); err != nil {
		log.Printf("login: code dispatch failed for %s from %s: %v", user.Email, ip, err)
		writeError(w, http.StatusBadGateway, "CODE_DISPATCH_FAILED")
		return
	}

	sess.Challenge = &challenge
	if err := s.Sessions.Save(ctx, sess); err != nil {
		writeError(w, http.StatusInternalServerError, "SESSION_CREATE_FAILED")
		return
	}

	auth.SetSessionCookie(w, sess.ID, sess.ExpiresAt)
	log.Printf("login: challenge issued for %s from %s", user.Email, ip)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "A verification code has been sent to your email.",
		"challengePending": true,
		"expiresAt":        challenge.ExpiresAt,
	})
}

type verifyCodeRequest struct {
	Code string `json:"codigo"`
}

func (s *Server) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Code) != 6 {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	ctx := r.Context()
	id := auth.SessionIDFromRequest(r)
	if id == "" {
		writeError(w, http.StatusUnauthorized, "CODE_INVALID_OR_EXPIRED")
		return
	}
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read session")
		return
	}
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "CODE_INVALID_OR_EXPIRED")
		return
	}

	outcome := sess.Challenge.Validate(req.Code, s.now())
	if outcome != auth.ChallengeOK {
		// Absent, expired and wrong codes all read the same to the caller.
		log.Printf("verify-code: rejected for session %s: %s", sess.ID, outcome)
		writeError(w, http.StatusUnauthorized, "CODE_INVALID_OR_EXPIRED")
		return
	}

	user, err := s.Users.FindByID(ctx, sess.Challenge.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "CODE_INVALID_OR_EXPIRED")
		return
	}

	// One-shot: Establish clears the challenge before anything else can see
	// the code again.
	if err := s.Sessions.Establish(ctx, sess, user); err != nil {
		writeError(w, http.StatusInternalServerError, "SESSION_CREATE_FAILED")
		return
	}
	if err := s.Users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("verify-code: touch last login failed for %s: %v", user.ID, err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": userPayload(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id := auth.SessionIDFromRequest(r); id != "" {
		_ = s.Sessions.Delete(r.Context(), id)
	}
	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.Users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	payload := userPayload(user)
	payload["sessionId"] = sess.ID
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.Users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	profile, err := s.Users.LoadProfile(r.Context(), user)
	if err != nil {
		log.Printf("profile: load failed for %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rol":    user.Role.String(),
		"nombre": profile.DisplayName(),
		"perfil": profile,
	})
}

func userPayload(user *auth.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             user.ID,
		"email":          user.Email,
		"rol":            user.Role.String(),
		"activo":         user.Active,
		"fechaRegistro":  user.RegisteredAt,
		"ultimaConexion": user.LastLoginAt,
	}
}
