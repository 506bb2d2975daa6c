// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Request headers carrying the caller identity.
const (
	HeaderCallerAddress   = "X-Caller-Address"
	HeaderCallerSignature = "X-Caller-Signature"
)

var (
	ErrMissingCaller    = errors.New("missing caller address")
	ErrInvalidSignature = errors.New("invalid caller signature")
)

// SignCaller returns the signature that proves a request speaks for address.
// This is deterministic and verifiable
func SignCaller(address, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(address))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner signatures
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// VerifyCaller checks signature against address in constant time
func VerifyCaller(address, signature, salt string) error {
	expected := SignCaller(address, salt)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// CallerFromHeaders extracts and verifies the caller address of a request.
func CallerFromHeaders(h http.Header, salt string) (string, error) {
	address := strings.TrimSpace(h.Get(HeaderCallerAddress))
	if address == "" {
		return "", ErrMissingCaller
	}
	if err := VerifyCaller(address, h.Get(HeaderCallerSignature), salt); err != nil {
		return "", err
	}
	return address, nil
}
