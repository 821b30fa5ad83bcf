// Package services contains the server-side business logic: identity,
// the follow graph, the engagement ledger, notifications and media.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/tourgo/internal/common"
	"github.com/dmitrijs2005/tourgo/internal/logging"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/users"
)

const maxUserNameLen = 32

// Decrypter recovers plaintext secrets sent by clients.
type Decrypter interface {
	PublicKeyPEM() string
	Decrypt(ciphertext string) ([]byte, error)
}

type Hasher interface {
	Hash(secret []byte) (string, error)
	Verify(secret []byte, digest string) bool
}

type TokenIssuer interface {
	Issue(username string) (string, time.Time, error)
}

// UserService implements the identity flows. Secrets arrive encrypted with
// the server public key and are wiped as soon as they are hashed or checked.
type UserService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	keys   Decrypter
	hasher Hasher
	tokens TokenIssuer
	logger logging.Logger
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, keys Decrypter, hasher Hasher, tokens TokenIssuer, logger logging.Logger) *UserService {
	return &UserService{
		db:     db,
		rm:     rm,
		keys:   keys,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("module", "users"),
	}
}

func (s *UserService) PublicKey() string {
	return s.keys.PublicKeyPEM()
}

func validateUserName(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if utf8.RuneCountInString(username) > maxUserNameLen {
		return fmt.Errorf("%w: username longer than %d characters", common.ErrValidation, maxUserNameLen)
	}
	if strings.ContainsRune(username, '/') {
		return fmt.Errorf("%w: username must not contain '/'", common.ErrValidation)
	}
	return nil
}

// hashCiphertext decrypts and hashes one secret, wiping the plaintext.
func (s *UserService) hashCiphertext(ciphertext string) (string, error) {
	plain, err := s.keys.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(plain)

	if len(plain) == 0 {
		return "", fmt.Errorf("%w: empty secret", common.ErrValidation)
	}
	return s.hasher.Hash(plain)
}

// Register creates an identity. Both the password and the recovery answer
// arrive as ciphertext.
func (s *UserService) Register(ctx context.Context, username, name, passwordCT, certifyCT string) error {
	if err := validateUserName(username); err != nil {
		return err
	}

	pw, err := s.hashCiphertext(passwordCT)
	if err != nil {
		return err
	}
	cert, err := s.hashCiphertext(certifyCT)
	if err != nil {
		return err
	}

	if name == "" {
		name = username
	}
	u := &models.User{UserName: username, Name: name, PasswordDigest: pw, CertifyDigest: cert}
	if err := s.rm.Users(s.db).Create(ctx, u); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user", username)
	return nil
}

func (s *UserService) Exists(ctx context.Context, username string) (bool, error) {
	if err := validateUserName(username); err != nil {
		return false, err
	}
	return s.rm.Users(s.db).Exists(ctx, username)
}

// checkSecret verifies ciphertext against the digest column selected by kind.
// An unknown user verifies as false.
func (s *UserService) checkSecret(ctx context.Context, username string, kind users.SecretKind, ciphertext string) (bool, error) {
	plain, err := s.keys.Decrypt(ciphertext)
	if err != nil {
		return false, err
	}
	defer common.WipeByteArray(plain)

	digest, err := s.rm.Users(s.db).GetDigest(ctx, username, kind)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.hasher.Verify(plain, digest), nil
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token    string
	IssuedAt time.Time
}

// Login verifies the password and issues a session token. Wrong credentials
// and unknown users both yield common.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, username, passwordCT string) (*Session, error) {
	if err := validateUserName(username); err != nil {
		return nil, err
	}

	ok, err := s.checkSecret(ctx, username, users.SecretPassword, passwordCT)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn(ctx, "login rejected", "user", username)
		return nil, common.ErrUnauthorized
	}

	token, issuedAt, err := s.tokens.Issue(username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return &Session{Token: token, IssuedAt: issuedAt}, nil
}

// VerifyRecovery checks the recovery answer. No token is issued.
func (s *UserService) VerifyRecovery(ctx context.Context, username, certifyCT string) (bool, error) {
	if err := validateUserName(username); err != nil {
		return false, err
	}
	return s.checkSecret(ctx, username, users.SecretCertify, certifyCT)
}

// ChangePassword replaces the password digest. When certifyCT is non-empty
// the recovery answer is checked first and a mismatch yields
// common.ErrUnauthorized.
func (s *UserService) ChangePassword(ctx context.Context, username, passwordCT, certifyCT string) error {
	if err := validateUserName(username); err != nil {
		return err
	}

	if certifyCT != "" {
		ok, err := s.checkSecret(ctx, username, users.SecretCertify, certifyCT)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrUnauthorized
		}
	}

	digest, err := s.hashCiphertext(passwordCT)
	if err != nil {
		return err
	}
	if err := s.rm.Users(s.db).UpdateDigest(ctx, username, users.SecretPassword, digest); err != nil {
		return fmt.Errorf("error changing password: %w", err)
	}

	s.logger.Info(ctx, "password changed", "user", username)
	return nil
}

func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	return s.rm.Users(s.db).GetByUserName(ctx, username)
}

// SetAvatar stores key as the profile picture. Only keys issued for the
// user's own avatar prefix are accepted.
func (s *UserService) SetAvatar(ctx context.Context, username, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: avatar key is required", common.ErrValidation)
	}
	prefix, err := OwnerPrefix(MediaAvatar, username)
	if err != nil {
		return err
	}
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok || rest == "" {
		return fmt.Errorf("%w: avatar key must be under %s", common.ErrValidation, prefix)
	}
	return s.rm.Users(s.db).SetAvatar(ctx, username, key)
}
