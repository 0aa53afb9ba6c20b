package services

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/NoelOsiro/tuma-task-api/internal/config"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorageService(t *testing.T, cfg config.StorageConfig) *StorageService {
	t.Helper()
	if cfg.RootDir == "" {
		cfg.RootDir = t.TempDir()
	}
	if cfg.SigningSecret == "" {
		cfg.SigningSecret = "test-signing-secret"
	}
	svc, err := NewStorageService(StorageServiceConfig{
		Config:  cfg,
		BaseURL: "http://localhost:8080",
		Logger:  logger.NewNop(),
	})
	require.NoError(t, err)
	return svc
}

func signedQuery(t *testing.T, signed string) (expires int64, token string) {
	t.Helper()
	u, err := url.Parse(signed)
	require.NoError(t, err)
	expires, err = strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	return expires, u.Query().Get("token")
}

func TestNewStorageServiceRequiresConfig(t *testing.T) {
	_, err := NewStorageService(StorageServiceConfig{
		Config: config.StorageConfig{RootDir: "", SigningSecret: "s"},
		Logger: logger.NewNop(),
	})
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	_, err = NewStorageService(StorageServiceConfig{
		Config: config.StorageConfig{RootDir: t.TempDir(), SigningSecret: ""},
		Logger: logger.NewNop(),
	})
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}

func TestClampTTLSeconds(t *testing.T) {
	assert.Equal(t, MinSignedTTLSeconds, ClampTTLSeconds(0))
	assert.Equal(t, MinSignedTTLSeconds, ClampTTLSeconds(13))
	assert.Equal(t, 3600, ClampTTLSeconds(3600))
	assert.Equal(t, MaxSignedTTLSeconds, ClampTTLSeconds(100000))
}

func TestSignedURLDefaultTTL(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{UploadTTL: 2 * time.Hour})

	signed, err := svc.SignedURL("user-1/123_me.png", TTLDefault)
	require.NoError(t, err)
	assert.Equal(t, 7200, signed.ExpiresIn)
}

func TestSignedURLClampsExplicitValues(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})

	low, err := svc.SignedURL("user-1/123_me.png", 0)
	require.NoError(t, err)
	assert.Equal(t, MinSignedTTLSeconds, low.ExpiresIn)

	high, err := svc.SignedURL("user-1/123_me.png", 1000000)
	require.NoError(t, err)
	assert.Equal(t, MaxSignedTTLSeconds, high.ExpiresIn)
}

func TestSignedURLRoundTripVerifies(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})

	signed, err := svc.SignedURL("user-1/123_me.png", 300)
	require.NoError(t, err)
	assert.Contains(t, signed.SignedURL, "/storage/avatars/user-1/123_me.png?")

	expires, token := signedQuery(t, signed.SignedURL)
	assert.NoError(t, svc.Verify("avatars", "user-1/123_me.png", expires, token))
}

func TestVerifyRejectsTampering(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})

	signed, err := svc.SignedURL("user-1/123_me.png", 300)
	require.NoError(t, err)
	expires, token := signedQuery(t, signed.SignedURL)

	// Different path, stretched expiry, mangled token.
	assert.ErrorIs(t, svc.Verify("avatars", "user-2/123_me.png", expires, token), ErrStorageBadSignature)
	assert.ErrorIs(t, svc.Verify("avatars", "user-1/123_me.png", expires+600, token), ErrStorageBadSignature)
	assert.ErrorIs(t, svc.Verify("avatars", "user-1/123_me.png", expires, token+"ff"), ErrStorageBadSignature)
}

func TestVerifyRejectsForeignBucket(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})

	signed, err := svc.SignedURL("user-1/123_me.png", 300)
	require.NoError(t, err)
	expires, token := signedQuery(t, signed.SignedURL)

	assert.ErrorIs(t, svc.Verify("documents", "user-1/123_me.png", expires, token), ErrStorageInvalidPath)
	assert.ErrorIs(t, svc.Verify("", "user-1/123_me.png", expires, token), ErrStorageInvalidPath)
}

func TestVerifyRejectsExpiredLink(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})

	expires := time.Now().Add(-time.Minute).Unix()
	token := svc.sign("user-1/123_me.png", expires)
	assert.ErrorIs(t, svc.Verify("avatars", "user-1/123_me.png", expires, token), ErrStorageLinkExpired)
}

func TestSignedURLRejectsTraversal(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})

	for _, path := range []string{"", "/etc/passwd", "user-1/../../secret", "a//b"} {
		_, err := svc.SignedURL(path, 300)
		assert.ErrorIs(t, err, ErrStorageInvalidPath, "path %q", path)
	}
}

func TestSaveAvatarWritesUnderUserPrefix(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})
	ctx := context.Background()

	path, err := svc.SaveAvatar(ctx, "user-1", "my photo.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "user-1/"), "got %q", path)
	assert.True(t, strings.HasSuffix(path, "_my_photo.png"), "got %q", path)

	rc, err := svc.Open(path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveAvatarRejectsUnsafeUserID(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})
	ctx := context.Background()

	for _, userID := range []string{"..", ".", "a/b", "../escape", `a\b`} {
		_, err := svc.SaveAvatar(ctx, userID, "me.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrStorageInvalidPath, "user id %q", userID)
	}
}

func TestSaveAvatarStripsDirectoryComponents(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})

	path, err := svc.SaveAvatar(context.Background(), "user-1", "../../evil.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "user-1/"), "got %q", path)
	assert.NotContains(t, path, "..")
}

func TestOpenMissingObject(t *testing.T) {
	svc := newStorageService(t, config.StorageConfig{})

	_, err := svc.Open("user-1/123_gone.png")
	assert.ErrorIs(t, err, ErrStorageObjectNotFound)
}
