// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides argon2id password hashing and verification.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	argonTime    = 2
	argonMemory  = 19 * 1024 // 19 MB, fits small VMs
	argonThreads = 1
	argonKeyLen  = 32
	argonSaltLen = 16
)

type hashParams struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	digest  []byte
}

// decodeHash parses an encoded argon2id hash of the form
// $argon2id$v=19$m=...,t=...,p=...$salt$digest.
func decodeHash(encoded string) (hashParams, error) {
	var p hashParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return p, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return p, fmt.Errorf("unsupported hash type: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, fmt.Errorf("parsing version: %w", err)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, fmt.Errorf("parsing parameters: %w", err)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, fmt.Errorf("decoding salt: %w", err)
	}
	if p.digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return p, fmt.Errorf("decoding digest: %w", err)
	}

	return p, nil
}

// HashPassword creates an argon2id hash of the password using the current
// cost parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest)), nil
}

// CheckPassword verifies a password against an encoded argon2id hash in
// constant time. Hashes created with older cost parameters still verify.
func CheckPassword(password, encodedHash string) (bool, error) {
	p, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	digest := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.digest)))
	return subtle.ConstantTimeCompare(digest, p.digest) == 1, nil
}

// NeedsRehash reports whether an encoded hash was created with different
// parameters than the current defaults and should be re-created on next
// successful login.
func NeedsRehash(encodedHash string) bool {
	p, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}
	return p.memory != argonMemory || p.time != argonTime || p.threads != argonThreads
}
