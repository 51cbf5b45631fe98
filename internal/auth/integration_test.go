package auth

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/quixapro/quixa-api/internal/domain"
	"github.com/quixapro/quixa-api/internal/repository"
)

// fakeSender records dispatched tokens instead of talking to SMTP.
type fakeSender struct {
	lastCode  string
	lastToken string
	fail      bool
}

func (f *fakeSender) SendVerificationEmail(toEmail, toName, code string) error {
	if f.fail {
		return fmt.Errorf("%w: smtp unavailable", domain.ErrEmailDelivery)
	}
	f.lastCode = code
	return nil
}

func (f *fakeSender) SendPasswordResetEmail(toEmail, toName, token, resetURL string) error {
	if f.fail {
		return fmt.Errorf("%w: smtp unavailable", domain.ErrEmailDelivery)
	}
	f.lastToken = token
	return nil
}

type testEnv struct {
	db           *sql.DB
	users        *repository.UsersRepository
	creds        *repository.CredentialsRepository
	tokens       *repository.VerificationTokensRepository
	sessions     *repository.SessionsRepository
	sender       *fakeSender
	verification *VerificationService
	password     *PasswordService
	session      *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.Migrate(context.Background(), db))

	users := repository.NewUsersRepository(db)
	creds := repository.NewCredentialsRepository(db)
	tokens := repository.NewVerificationTokensRepository(db)
	sessions := repository.NewSessionsRepository(db)
	sender := &fakeSender{}

	verification := NewVerificationService(VerificationConfig{}, db, tokens, users, creds, sender)
	password := NewPasswordService(db, users, creds, verification)
	session := NewSessionService(SessionConfig{JWTSecret: "integration-test-secret"}, sessions)

	return &testEnv{
		db:           db,
		users:        users,
		creds:        creds,
		tokens:       tokens,
		sessions:     sessions,
		sender:       sender,
		verification: verification,
		password:     password,
		session:      session,
	}
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

func TestEmailVerificationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := uniqueEmail("alice")

	user, err := env.password.Register(ctx, email, "Alice", "password123")
	require.NoError(t, err)
	require.False(t, user.EmailVerified)

	code1 := env.sender.lastCode
	require.Len(t, code1, 4)

	// Re-issuing invalidates the previous code.
	_, err = env.verification.SendEmailVerification(ctx, user)
	require.NoError(t, err)
	code2 := env.sender.lastCode

	_, err = env.verification.VerifyEmail(ctx, email, code1)
	if code1 != code2 {
		require.ErrorIs(t, err, domain.ErrInvalidVerificationCode)
	}

	// The fresh code redeems exactly once.
	verified, err := env.verification.VerifyEmail(ctx, email, code2)
	require.NoError(t, err)
	require.True(t, verified.EmailVerified)

	_, err = env.verification.VerifyEmail(ctx, email, code2)
	require.ErrorIs(t, err, domain.ErrEmailAlreadyVerified)

	// Requesting another code for a verified account is rejected.
	_, err = env.verification.SendEmailVerification(ctx, verified)
	require.ErrorIs(t, err, domain.ErrEmailAlreadyVerified)
}

func TestEmailVerification_ExpiredCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := uniqueEmail("bob")

	_, err := env.password.Register(ctx, email, "Bob", "password123")
	require.NoError(t, err)
	code := env.sender.lastCode

	// Advance the service clock past the 15 minute window.
	env.verification.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	_, err = env.verification.VerifyEmail(ctx, email, code)
	require.ErrorIs(t, err, domain.ErrInvalidVerificationCode)
}

func TestEmailVerification_UnknownAccountIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.verification.VerifyEmail(ctx, uniqueEmail("ghost"), "1234")
	require.ErrorIs(t, err, domain.ErrInvalidVerificationCode)
}

func TestPasswordResetLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := uniqueEmail("carol")

	_, err := env.password.Register(ctx, email, "Carol", "oldpassword")
	require.NoError(t, err)

	require.NoError(t, env.verification.RequestPasswordReset(ctx, email))
	token := env.sender.lastToken
	require.NotEmpty(t, token)

	// Wrong token leaves the password unchanged.
	err = env.verification.ResetPassword(ctx, email, "wrong-token", "newpassword")
	require.ErrorIs(t, err, domain.ErrInvalidResetToken)
	_, err = env.password.Authenticate(ctx, email, "oldpassword")
	require.NoError(t, err)

	// The real token works exactly once.
	require.NoError(t, env.verification.ResetPassword(ctx, email, token, "newpassword"))

	err = env.verification.ResetPassword(ctx, email, token, "anotherpassword")
	require.ErrorIs(t, err, domain.ErrInvalidResetToken)

	_, err = env.password.Authenticate(ctx, email, "oldpassword")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = env.password.Authenticate(ctx, email, "newpassword")
	require.NoError(t, err)
}

func TestPasswordReset_Supersession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := uniqueEmail("dave")

	_, err := env.password.Register(ctx, email, "Dave", "password123")
	require.NoError(t, err)

	require.NoError(t, env.verification.RequestPasswordReset(ctx, email))
	token1 := env.sender.lastToken
	require.NoError(t, env.verification.RequestPasswordReset(ctx, email))
	token2 := env.sender.lastToken
	require.NotEqual(t, token1, token2)

	err = env.verification.ResetPassword(ctx, email, token1, "newpassword")
	require.ErrorIs(t, err, domain.ErrInvalidResetToken)

	require.NoError(t, env.verification.ResetPassword(ctx, email, token2, "newpassword"))
}

func TestSocialOnlyAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := uniqueEmail("eve")

	// A social account has a user row but no credential row.
	now := time.Now()
	user := &domain.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          "Eve",
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, env.users.Create(ctx, user))

	_, err := env.password.Authenticate(ctx, email, "any-password-at-all")
	require.ErrorIs(t, err, domain.ErrSocialAuthOnly)

	err = env.verification.RequestPasswordReset(ctx, email)
	require.ErrorIs(t, err, domain.ErrSocialAuthOnly)

	err = env.password.ChangePassword(ctx, user.ID, "old", "newpassword")
	require.ErrorIs(t, err, domain.ErrSocialAuthOnly)
}

func TestRegister_RollsBackOnEmailFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := uniqueEmail("frank")

	env.sender.fail = true
	_, err := env.password.Register(ctx, email, "Frank", "password123")
	require.ErrorIs(t, err, domain.ErrEmailDelivery)

	// The user row must not survive the failed dispatch.
	exists, err := env.users.ExistsByEmail(ctx, email)
	require.NoError(t, err)
	require.False(t, exists)

	// A retry with a working sender succeeds.
	env.sender.fail = false
	_, err = env.password.Register(ctx, email, "Frank", "password123")
	require.NoError(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := uniqueEmail("grace")

	user, err := env.password.Register(ctx, email, "Grace", "password123")
	require.NoError(t, err)

	pair, err := env.session.IssueSession(ctx, user)
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)

	claims, err := env.session.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims.Subject)

	// Refresh rotates: the old refresh token dies with the exchange.
	pair2, err := env.session.RefreshSession(ctx, user, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, pair2.RefreshToken)

	_, err = env.session.RefreshSession(ctx, user, pair.RefreshToken)
	require.Error(t, err)

	// Logout revokes the live token; revoking again is a rejected input.
	require.NoError(t, env.session.RevokeSession(ctx, pair2.RefreshToken))
	require.ErrorIs(t, env.session.RevokeSession(ctx, pair2.RefreshToken), domain.ErrSessionNotFound)

	_, err = env.session.RefreshSession(ctx, user, pair2.RefreshToken)
	require.Error(t, err)
}

func TestGoogleGetOrCreate_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := uniqueEmail("henry")

	svc := &GoogleService{
		db:    env.db,
		users: env.users,
		now:   time.Now,
	}

	info := &googleUserInfo{
		Email:         email,
		VerifiedEmail: true,
		GivenName:     "Henry",
		FamilyName:    "Ford",
	}

	// Simulate two sign-ins resolving to the same verified email by
	// calling the resolution path twice.
	first, err := svc.resolveUser(ctx, info)
	require.NoError(t, err)
	require.True(t, first.EmailVerified)

	second, err := svc.resolveUser(ctx, info)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}
