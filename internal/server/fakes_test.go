package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mineconect/internal/auth"
	"mineconect/internal/config"
	"mineconect/internal/i18n"
)

// fakeUserStore mimics the pgx repository over maps, including the
// all-or-nothing uniqueness contract of CreateWithProfile.
type fakeUserStore struct {
	mu       sync.Mutex
	byEmail  map[string]*auth.User
	byID     map[string]*auth.User
	profiles map[string]auth.ProfileDetail
	docs     map[string]string
	seq      int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail:  make(map[string]*auth.User),
		byID:     make(map[string]*auth.User),
		profiles: make(map[string]auth.ProfileDetail),
		docs:     make(map[string]string),
	}
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byEmail[email], nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id], nil
}

func uniqueKey(profile auth.ProfileDetail) (key, field string) {
	switch p := profile.(type) {
	case *auth.EntrepreneurProfile:
		return "doc:" + p.DocumentNumber, "numero_documento"
	case *auth.BusinessOwnerProfile:
		return "doc:" + p.PersonalDocumentNumber, "numero_documento_personal"
	case *auth.InvestorProfile:
		return "doc:" + p.DocumentNumber, "numero_documento"
	case *auth.InstitutionProfile:
		return "nit:" + p.NIT, "nit"
	}
	return "", ""
}

func (f *fakeUserStore) CreateWithProfile(_ context.Context, email, passwordHash string, profile auth.ProfileDetail) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byEmail[email]; exists {
		return nil, &auth.DuplicateError{Field: "email"}
	}
	key, field := uniqueKey(profile)
	if _, exists := f.docs[key]; exists {
		return nil, &auth.DuplicateError{Field: field}
	}

	f.seq++
	user := &auth.User{
		ID:           fmt.Sprintf("user-%d", f.seq),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         profile.ProfileRole(),
		Active:       true,
	}
	f.byEmail[email] = user
	f.byID[user.ID] = user
	f.profiles[user.ID] = profile
	f.docs[key] = user.ID
	return user, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.byID[userID]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, _ string) error { return nil }

func (f *fakeUserStore) LoadProfile(_ context.Context, user *auth.User) (auth.ProfileDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.Role == auth.RoleAdmin {
		return auth.AdminProfile{Name: "Administrador"}, nil
	}
	return f.profiles[user.ID], nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*auth.Session)}
}

func (f *fakeSessionStore) Save(_ context.Context, sess *auth.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sess
	if sess.Challenge != nil {
		ch := *sess.Challenge
		cp.Challenge = &ch
	}
	f.sessions[sess.ID] = &cp
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *sess
	if sess.Challenge != nil {
		ch := *sess.Challenge
		cp.Challenge = &ch
	}
	return &cp, nil
}

func (f *fakeSessionStore) Establish(ctx context.Context, sess *auth.Session, user *auth.User) error {
	sess.State = auth.SessionStateAuthenticated
	sess.UserID = user.ID
	sess.Email = user.Email
	sess.Role = user.Role
	sess.Challenge = nil
	return f.Save(ctx, sess)
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, sess := range f.sessions {
		if sess.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

type sentMail struct {
	To      string
	Content i18n.EmailContent
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (f *fakeMailer) Send(_ context.Context, to string, content i18n.EmailContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMail{To: to, Content: content})
	return nil
}

func (f *fakeMailer) lastTo() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].To
}

type testEnv struct {
	server   *Server
	users    *fakeUserStore
	sessions *fakeSessionStore
	mailer   *fakeMailer
}

func newTestEnv() *testEnv {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	mailer := &fakeMailer{}

	cfg := config.Config{
		Port:       "8080",
		BaseURL:    "http://localhost:3000",
		SecretKey:  "test-secret",
		SessionTTL: 24 * time.Hour,
	}

	srv := NewServer(cfg, users, sessions, mailer,
		auth.NewTokenSigner(cfg.SecretKey), &auth.BcryptHasher{Cost: bcrypt.MinCost})

	return &testEnv{server: srv, users: users, sessions: sessions, mailer: mailer}
}
