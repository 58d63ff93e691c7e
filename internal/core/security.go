// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost settings for member credentials. Changing any of these
// triggers a transparent rehash on the next successful login.
const (
	hashIterations  = 1
	hashMemoryKiB   = 64 * 1024
	hashParallelism = 4
	hashLength      = 32
	hashSaltLength  = 16
)

type hashParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLen      uint32
}

var currentParams = hashParams{
	memory:      hashMemoryKiB,
	iterations:  hashIterations,
	parallelism: hashParallelism,
	keyLen:      hashLength,
}

// HashPassword derives an Argon2id hash in the standard PHC string
// format, salt included.
func HashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := deriveKey([]byte(password), salt, currentParams)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		currentParams.memory,
		currentParams.iterations,
		currentParams.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)

	return encoded, nil
}

// VerifyPassword checks a candidate password against a stored hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	params, salt, digest, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := deriveKey([]byte(password), salt, params)

	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

// VerifyPasswordWithRehash verifies the password and, when the stored
// hash was produced with outdated cost settings, returns a fresh hash
// for the caller to persist. An empty second return means the stored
// hash is current.
func VerifyPasswordWithRehash(
	password, encodedHash string,
) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return false, "", err
	}

	if hashIsCurrent(encodedHash) {
		return true, "", nil
	}

	rehashed, err := HashPassword(password)
	if err != nil {
		// The login already succeeded; the upgrade can wait.
		return true, "", nil
	}

	return true, rehashed, nil
}

// decoyHash is verified in place of a real hash when the account does
// not exist, so login timing does not reveal which emails are members.
var decoyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("decoy-credential-for-unknown-accounts")
	if err != nil {
		panic(fmt.Sprintf("security: derive decoy hash: %v", err))
	}
	return hash
})

// VerifyPasswordTimingSafe behaves like VerifyPasswordWithRehash but
// accepts a possibly-missing stored hash. A nil or empty hash still
// burns a full Argon2id derivation before reporting failure.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	if encodedHash == nil || *encodedHash == "" {
		_, _, _ = VerifyPasswordWithRehash(password, decoyHash())
		return false, "", nil
	}

	return VerifyPasswordWithRehash(password, *encodedHash)
}

func deriveKey(password, salt []byte, p hashParams) []byte {
	return argon2.IDKey(
		password,
		salt,
		p.iterations,
		p.memory,
		p.parallelism,
		p.keyLen,
	)
}

func parseHash(encodedHash string) (hashParams, []byte, []byte, error) {
	var p hashParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, errors.New("malformed password hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("parse hash version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf(
			"unsupported argon2 version %d", version,
		)
	}

	_, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&p.memory,
		&p.iterations,
		&p.parallelism,
	)
	if err != nil {
		return p, nil, nil, fmt.Errorf("parse hash params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode digest: %w", err)
	}

	//nolint:gosec // G115: digest length is bounded by the encoding
	p.keyLen = uint32(len(digest))

	return p, salt, digest, nil
}

func hashIsCurrent(encodedHash string) bool {
	params, _, _, err := parseHash(encodedHash)
	if err != nil {
		return false
	}
	return params == currentParams
}

// GenerateSecureToken returns length random bytes, URL-safe encoded.
func GenerateSecureToken(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

// HashToken digests an opaque token for at-rest storage. Refresh tokens
// are stored hashed so a database leak does not leak live sessions.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	candidate := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}
