package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen uint32
}

var defaultArgon = argonParams{time: 1, memory: 64 * 1024, threads: 4, keyLen: 32, saltLen: 16}

// hashPassword encodes as argon2id$time$memory$threads$salt$hash.
func hashPassword(password string, p argonParams) (string, error) {
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	return fmt.Sprintf("argon2id$%d$%d$%d$%s$%s", p.time, p.memory, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func verifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "argon2id" {
		return false, fmt.Errorf("invalid hash format")
	}
	var nums [3]uint64
	for i := range nums {
		n, err := strconv.ParseUint(parts[i+1], 10, 32)
		if err != nil {
			return false, fmt.Errorf("invalid hash parameter: %w", err)
		}
		nums[i] = n
	}
	if nums[2] == 0 || nums[2] > 255 {
		return false, fmt.Errorf("invalid thread count %d", nums[2])
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}
	got := argon2.IDKey([]byte(password), salt, uint32(nums[0]), uint32(nums[1]), uint8(nums[2]), uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
