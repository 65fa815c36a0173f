package service

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/model"
	"github.com/dtroode/journal-auth/internal/password"
	"github.com/dtroode/journal-auth/internal/repository/memory"
	"github.com/dtroode/journal-auth/internal/testutil"
	"github.com/dtroode/journal-auth/internal/token"
)

const testPassword = "longenough1"

var (
	linkTokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)
	otpPattern       = regexp.MustCompile(`code is (\d{6})`)
)

type outbox struct {
	mu   sync.Mutex
	msgs []model.Message
}

func (o *outbox) Send(_ context.Context, msg model.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return nil
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}

func (o *outbox) last(t *testing.T) model.Message {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.msgs, "no mail sent")
	return o.msgs[len(o.msgs)-1]
}

func (o *outbox) lastLinkToken(t *testing.T) string {
	t.Helper()
	m := linkTokenPattern.FindStringSubmatch(o.last(t).Body)
	require.Len(t, m, 2)
	return m[1]
}

func (o *outbox) lastOTP(t *testing.T) string {
	t.Helper()
	m := otpPattern.FindStringSubmatch(o.last(t).Body)
	require.Len(t, m, 2)
	return m[1]
}

type testEnv struct {
	clock     *testutil.Clock
	users     *memory.UserRepository
	tokens    *memory.EmailTokenRepository
	mail      *outbox
	issuer    *token.JWT
	hasher    *password.Hasher
	auth      *Auth
	twoFactor *TwoFactor
	admin     *Admin
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := testutil.NewClock(time.Now())
	log := testutil.MakeNoopLogger()

	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	users := memory.NewUserRepository()
	tokens := memory.NewEmailTokenRepository()
	mail := &outbox{}
	issuer := token.NewJWT("test-secret", token.WithClock(clock.Now))
	sessions := NewSessions(issuer, 168*time.Hour, 5*time.Minute)

	totpVerifier := NewTOTPVerifier()
	totpVerifier.now = clock.Now
	otpVerifier := NewEmailOTPVerifier(tokens)
	otpVerifier.now = clock.Now
	verifiers := []model.SecondFactorVerifier{totpVerifier, otpVerifier, NewBackupCodeVerifier(users, hasher)}

	auth := NewAuth(users, tokens, mail, hasher, sessions, "http://journal.test/", log)
	auth.now = clock.Now

	twoFactor := NewTwoFactor(users, tokens, mail, hasher, sessions, verifiers, "TradeJournal", log)
	twoFactor.now = clock.Now

	return &testEnv{
		clock:     clock,
		users:     users,
		tokens:    tokens,
		mail:      mail,
		issuer:    issuer,
		hasher:    hasher,
		auth:      auth,
		twoFactor: twoFactor,
		admin:     NewAdmin(users, sessions, log),
	}
}

// verifiedUser registers and verifies an account and returns its full session claims.
func (e *testEnv) verifiedUser(t *testing.T, email string) model.SessionClaims {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, e.auth.Register(ctx, model.RegisterInput{
		Name: "Trader", Email: email, Password: testPassword, ConfirmPassword: testPassword,
	}))
	require.NoError(t, e.auth.VerifyEmail(ctx, e.mail.lastLinkToken(t)))

	res, err := e.auth.Login(ctx, email, testPassword)
	require.NoError(t, err)
	require.False(t, res.RequiresTwoFactor)

	claims, err := e.issuer.VerifySession(res.Session.Token)
	require.NoError(t, err)
	return claims
}

func requireAPIError(t *testing.T, err error, status int) *apierror.APIError {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := apierror.As(err)
	require.True(t, ok, "expected APIError, got %v", err)
	require.Equal(t, status, apiErr.Status, apiErr.Message)
	return apiErr
}
