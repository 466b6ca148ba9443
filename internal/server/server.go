package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mineconect/internal/auth"
	"mineconect/internal/config"
	"mineconect/internal/email"
)

// UserStore is the identity-store surface the handlers need. The pgx
// repository implements it; tests plug in fakes.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	FindByID(ctx context.Context, id string) (*auth.User, error)
	CreateWithProfile(ctx context.Context, email, passwordHash string, profile auth.ProfileDetail) (*auth.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	TouchLastLogin(ctx context.Context, userID string) error
	LoadProfile(ctx context.Context, user *auth.User) (auth.ProfileDetail, error)
}

// SessionStore is the server-side session surface, per-client isolated.
type SessionStore interface {
	Save(ctx context.Context, sess *auth.Session) error
	Get(ctx context.Context, id string) (*auth.Session, error)
	Establish(ctx context.Context, sess *auth.Session, user *auth.User) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type Server struct {
	Users          UserStore
	Sessions       SessionStore
	Mailer         email.Dispatcher
	Tokens         *auth.TokenSigner
	Hasher         auth.PasswordHasher
	Config         config.Config
	verifier       *auth.Verifier
	trustedProxies []net.IPNet
	now            func() time.Time
}

func NewServer(cfg config.Config, users UserStore, sessions SessionStore, mailer email.Dispatcher, tokens *auth.TokenSigner, hasher auth.PasswordHasher) *Server {
	return &Server{
		Users:          users,
		Sessions:       sessions,
		Mailer:         mailer,
		Tokens:         tokens,
		Hasher:         hasher,
		Config:         cfg,
		verifier:       &auth.Verifier{Users: users, Hasher: hasher},
		trustedProxies: parseProxyCIDRs(cfg.TrustedProxies),
		now:            time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	formatter := &middleware.DefaultLogFormatter{
		Logger:  log.New(log.Writer(), "", log.Flags()),
		NoColor: true,
	}
	r.Use(middleware.RequestLogger(formatter))
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)

	r.Post("/api/register/emprendedor", s.handleRegisterEntrepreneur)
	r.Post("/api/register/empresario", s.handleRegisterBusinessOwner)
	r.Post("/api/register/inversionista", s.handleRegisterInvestor)
	r.Post("/api/register/institucion", s.handleRegisterInstitution)

	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/verify-code", s.handleVerifyCode)
	r.Post("/api/auth/logout", s.handleLogout)

	r.Post("/api/forgot-password", s.handleForgotPassword)
	r.Post("/api/reset-password", s.handleResetPassword)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireSession)

		pr.Get("/api/auth/me", s.handleMe)
		pr.Get("/api/profile", s.handleProfile)
	})

	return r
}
