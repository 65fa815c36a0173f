//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/journal-auth/internal/model"
	repo "github.com/dtroode/journal-auth/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "journal_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/journal_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newConnection(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createUser(t *testing.T, ur *repo.UserRepository) model.User {
	t.Helper()
	u, err := ur.Create(context.Background(), model.User{
		Email:        uuid.NewString() + "@Example.com",
		Name:         "Trader",
		PasswordHash: "$2a$04$hash",
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(newConnection(t))

	t.Run("create and lookup", func(t *testing.T) {
		u := createUser(t, ur)

		byEmail, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
		assert.False(t, byEmail.EmailVerified)
		assert.Empty(t, byEmail.BackupCodes)

		_, err = ur.Create(ctx, model.User{Email: u.Email, Name: "dup", PasswordHash: "x"})
		assert.ErrorIs(t, err, model.ErrAlreadyExists)

		_, err = ur.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("verification and password", func(t *testing.T) {
		u := createUser(t, ur)
		require.NoError(t, ur.MarkEmailVerified(ctx, u.ID))
		require.NoError(t, ur.UpdatePassword(ctx, u.ID, "new-hash"))

		got, err := ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.EmailVerified)
		assert.Equal(t, "new-hash", got.PasswordHash)

		assert.ErrorIs(t, ur.MarkEmailVerified(ctx, uuid.New()), model.ErrNotFound)
	})

	t.Run("two-factor and backup codes", func(t *testing.T) {
		u := createUser(t, ur)
		require.NoError(t, ur.EnableTwoFactor(ctx, u.ID, "SECRET", []string{"h1", "h2", "h3"}))

		ok, err := ur.ConsumeBackupCode(ctx, u.ID, "h2")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = ur.ConsumeBackupCode(ctx, u.ID, "h2")
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.TwoFactorEnabled)
		assert.Equal(t, []string{"h1", "h3"}, got.BackupCodes)

		require.NoError(t, ur.ReplaceBackupCodes(ctx, u.ID, []string{"h9"}))
		require.NoError(t, ur.DisableTwoFactor(ctx, u.ID))

		got, err = ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.False(t, got.TwoFactorEnabled)
		assert.Empty(t, got.TOTPSecret)
		assert.Empty(t, got.BackupCodes)
	})
}

func TestUserRepository_ClaimFirstAdminRace(t *testing.T) {
	ctx := context.Background()
	conn := newConnection(t)
	ur := repo.NewUserRepository(conn)

	_, err := conn.Exec(ctx, `UPDATE users SET is_admin = FALSE`)
	require.NoError(t, err)

	users := make([]model.User, 10)
	for i := range users {
		users[i] = createUser(t, ur)
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			ok, err := ur.ClaimFirstAdmin(ctx, id)
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	n, err := ur.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = ur.ClaimFirstAdmin(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEmailTokenRepository(t *testing.T) {
	ctx := context.Background()
	conn := newConnection(t)
	ur := repo.NewUserRepository(conn)
	tr := repo.NewEmailTokenRepository(conn)
	u := createUser(t, ur)

	first := model.EmailToken{
		UserID:    u.ID,
		Email:     u.Email,
		TokenHash: uuid.NewString(),
		Type:      model.EmailTokenVerifyEmail,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, tr.Create(ctx, first))

	got, err := tr.GetByHash(ctx, first.TokenHash, model.EmailTokenVerifyEmail)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	assert.True(t, got.Usable(time.Now()))

	_, err = tr.GetByHash(ctx, first.TokenHash, model.EmailTokenResetPassword)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, tr.InvalidateUnused(ctx, u.ID, model.EmailTokenVerifyEmail))
	_, err = tr.GetLatestUnused(ctx, u.ID, model.EmailTokenVerifyEmail)
	assert.ErrorIs(t, err, model.ErrNotFound)

	second := first
	second.TokenHash = uuid.NewString()
	require.NoError(t, tr.Create(ctx, second))

	latest, err := tr.GetLatestUnused(ctx, u.ID, model.EmailTokenVerifyEmail)
	require.NoError(t, err)
	assert.Equal(t, second.TokenHash, latest.TokenHash)

	ok, err := tr.Consume(ctx, latest.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.Consume(ctx, latest.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
