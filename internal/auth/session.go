package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session states for the login-with-verification flow.
const (
	SessionStatePending       = "challenge_pending"
	SessionStateAuthenticated = "authenticated"
)

// Session is the server-side record keyed by the opaque cookie value. While
// a login challenge is outstanding it carries the pending verification;
// identity fields are only filled in once the session is established.
type Session struct {
	ID        string
	State     string
	UserID    string
	Email     string
	Role      Role
	Challenge *PendingVerification
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Authenticated() bool {
	return s != nil && s.State == SessionStateAuthenticated && s.UserID != ""
}

type SessionStore struct {
	Redis *redis.Client
}

func (s *SessionStore) Save(ctx context.Context, sess *Session) error {
	key := "session:" + sess.ID

	data := map[string]interface{}{
		"state":     sess.State,
		"userId":    sess.UserID,
		"email":     sess.Email,
		"role":      string(sess.Role),
		"createdAt": sess.CreatedAt.Unix(),
		"expires":   sess.ExpiresAt.Unix(),
	}
	if sess.Challenge != nil {
		data["challengeCode"] = sess.Challenge.Code
		data["challengeExpires"] = sess.Challenge.ExpiresAt.Unix()
		data["challengeUserId"] = sess.Challenge.UserID
	} else {
		data["challengeCode"] = ""
		data["challengeExpires"] = int64(0)
		data["challengeUserId"] = ""
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}

	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	key := "session:" + id
	vals, err := s.Redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}

	createdUnix, _ := strconv.ParseInt(vals["createdAt"], 10, 64)
	expUnix, _ := strconv.ParseInt(vals["expires"], 10, 64)

	sess := &Session{
		ID:        id,
		State:     vals["state"],
		UserID:    vals["userId"],
		Email:     vals["email"],
		Role:      Role(vals["role"]),
		CreatedAt: time.Unix(createdUnix, 0).UTC(),
		ExpiresAt: time.Unix(expUnix, 0).UTC(),
	}

	if code := vals["challengeCode"]; code != "" {
		chExpUnix, _ := strconv.ParseInt(vals["challengeExpires"], 10, 64)
		sess.Challenge = &PendingVerification{
			Code:      code,
			ExpiresAt: time.Unix(chExpUnix, 0).UTC(),
			UserID:    vals["challengeUserId"],
		}
	}

	if sess.ExpiresAt.Before(time.Now()) {
		_ = s.Delete(ctx, id)
		return nil, nil
	}

	return sess, nil
}

// Establish materializes an authenticated session for the user, clearing any
// pending challenge. Only the challenge success path and the direct-login
// path call this.
func (s *SessionStore) Establish(ctx context.Context, sess *Session, user *User) error {
	sess.State = SessionStateAuthenticated
	sess.UserID = user.ID
	sess.Email = user.Email
	sess.Role = user.Role
	sess.Challenge = nil
	return s.Save(ctx, sess)
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.Redis.Del(ctx, "session:"+id).Err()
}

// DeleteByUser revokes every session belonging to the user, e.g. after a
// password reset.
func (s *SessionStore) DeleteByUser(ctx context.Context, userID string) error {
	pipe := s.Redis.TxPipeline()
	iter := s.Redis.Scan(ctx, 0, "session:*", 100).Iterator()
	for iter.Next(ctx) {
		id := strings.TrimPrefix(iter.Val(), "session:")
		sess, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if sess != nil && sess.UserID == userID {
			pipe.Del(ctx, "session:"+sess.ID)
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

func NewSession(now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.NewString(),
		State:     SessionStatePending,
		CreatedAt: now.UTC(),
		ExpiresAt: now.UTC().Add(ttl),
	}
}
