package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NoelOsiro/tuma-task-api/internal/config"
	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
)

const (
	// MinSignedTTLSeconds and MaxSignedTTLSeconds bound every signed-URL
	// lifetime, whatever the caller asked for.
	MinSignedTTLSeconds = 60
	MaxSignedTTLSeconds = 86400

	// TTLDefault marks "no ttl requested"; the service substitutes its
	// configured default before clamping.
	TTLDefault = -1
)

// ClampTTLSeconds bounds a requested signed-URL lifetime to [60s, 24h].
// A request of zero clamps up to the minimum rather than meaning "default".
func ClampTTLSeconds(seconds int) int {
	if seconds < MinSignedTTLSeconds {
		return MinSignedTTLSeconds
	}
	if seconds > MaxSignedTTLSeconds {
		return MaxSignedTTLSeconds
	}
	return seconds
}

// StorageService keeps avatar objects on local disk and hands out HMAC-signed
// time-limited URLs for them, standing in for a hosted object store.
type StorageService struct {
	rootDir    string
	bucket     string
	secret     []byte
	baseURL    string
	defaultTTL time.Duration
	log        *logger.Logger
}

type StorageServiceConfig struct {
	Config  config.StorageConfig
	BaseURL string
	Logger  *logger.Logger
}

func NewStorageService(cfg StorageServiceConfig) (*StorageService, error) {
	if cfg.Config.RootDir == "" || cfg.Config.SigningSecret == "" {
		return nil, ErrStorageNotConfigured
	}
	bucket := cfg.Config.AvatarBucket
	if bucket == "" {
		bucket = "avatars"
	}
	if err := os.MkdirAll(filepath.Join(cfg.Config.RootDir, bucket), 0o755); err != nil {
		return nil, err
	}
	defaultTTL := cfg.Config.UploadTTL
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &StorageService{
		rootDir:    cfg.Config.RootDir,
		bucket:     bucket,
		secret:     []byte(cfg.Config.SigningSecret),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		defaultTTL: defaultTTL,
		log:        cfg.Logger,
	}, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == ".." {
		name = "avatar"
	}
	return name
}

func validPathSegment(part string) bool {
	if part == "" || part == "." || part == ".." {
		return false
	}
	return !strings.ContainsAny(part, `/\`)
}

func validObjectPath(path string) bool {
	if path == "" || strings.HasPrefix(path, "/") {
		return false
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

// SaveAvatar stores the uploaded file under the caller's prefix. The user id
// comes from the token subject, so it gets the same path-segment scrutiny as
// any object path before it names a directory.
func (s *StorageService) SaveAvatar(ctx context.Context, userID, filename string, content io.Reader) (string, error) {
	if userID == "" {
		userID = "public"
	}
	if !validPathSegment(userID) {
		return "", ErrStorageInvalidPath
	}
	path := fmt.Sprintf("%s/%d_%s", userID, time.Now().Unix(), sanitizeFilename(filename))

	full := filepath.Join(s.rootDir, s.bucket, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(full)
		return "", err
	}

	s.log.Infow("storage_avatar_saved", "path", path)
	return path, nil
}

func (s *StorageService) sign(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s/%s|%d", s.bucket, path, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *StorageService) SignedURL(path string, ttlSeconds int) (*ports.SignedAvatar, error) {
	if !validObjectPath(path) {
		return nil, ErrStorageInvalidPath
	}
	if ttlSeconds == TTLDefault {
		ttlSeconds = int(s.defaultTTL / time.Second)
	}
	ttlSeconds = ClampTTLSeconds(ttlSeconds)
	expires := time.Now().Add(time.Duration(ttlSeconds) * time.Second).Unix()
	token := s.sign(path, expires)

	url := fmt.Sprintf("%s/storage/%s/%s?expires=%d&token=%s", s.baseURL, s.bucket, path, expires, token)
	return &ports.SignedAvatar{
		SignedURL: url,
		Path:      path,
		ExpiresIn: ttlSeconds,
	}, nil
}

// Verify checks a signed-URL token. The bucket the caller addressed must be
// the bucket the token was minted for; the MAC alone would not catch a
// mismatch because signing always uses the configured bucket.
func (s *StorageService) Verify(bucket, path string, expires int64, signature string) error {
	if bucket != s.bucket {
		return ErrStorageInvalidPath
	}
	if !validObjectPath(path) {
		return ErrStorageInvalidPath
	}
	expected := s.sign(path, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrStorageBadSignature
	}
	if time.Now().Unix() > expires {
		return ErrStorageLinkExpired
	}
	return nil
}

func (s *StorageService) Open(path string) (io.ReadCloser, error) {
	if !validObjectPath(path) {
		return nil, ErrStorageInvalidPath
	}
	f, err := os.Open(filepath.Join(s.rootDir, s.bucket, filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStorageObjectNotFound
		}
		return nil, err
	}
	return f, nil
}
