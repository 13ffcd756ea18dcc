// SPDX-License-Identifier: GPL-3.0-only

package crypto

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	crypto := NewCrypto()
	password := "testpassword123"

	hash, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "" {
		t.Error("Hash should not be empty")
	}

	hash2, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("Second HashPassword failed: %v", err)
	}

	if hash == hash2 {
		t.Error("Two hashes of same password should be different (due to salt)")
	}
}

func TestVerifyPassword(t *testing.T) {
	crypto := NewCrypto()
	password := "testpassword123"
	wrongPassword := "wrongpassword"

	hash, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	err = crypto.VerifyPassword(password, hash)
	if err != nil {
		t.Errorf("VerifyPassword failed for correct password: %v", err)
	}

	err = crypto.VerifyPassword(wrongPassword, hash)
	if err == nil {
		t.Error("VerifyPassword should fail for wrong password")
	}

	err = crypto.VerifyPassword(password, "invalid-hash")
	if err == nil {
		t.Error("VerifyPassword should fail for invalid hash")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString("rt_", 32, "hex")
	if err != nil {
		t.Fatalf("GenerateRandomString failed: %v", err)
	}

	if !strings.HasPrefix(s, "rt_") {
		t.Errorf("Expected rt_ prefix, got %s", s)
	}

	if len(s) != 3+64 {
		t.Errorf("Expected 67 characters, got %d", len(s))
	}

	_, err = GenerateRandomString("", 32, "rot13")
	if err == nil {
		t.Error("GenerateRandomString should fail for unsupported encoding")
	}
}

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP(7)
	if err != nil {
		t.Fatalf("GenerateOTP failed: %v", err)
	}

	if len(otp) != 7 {
		t.Errorf("Expected 7 digits, got %d (%s)", len(otp), otp)
	}

	for _, r := range otp {
		if r < '0' || r > '9' {
			t.Errorf("OTP should be numeric, got %s", otp)
		}
	}

	if otp[0] == '0' {
		t.Errorf("OTP should not start with zero, got %s", otp)
	}

	otp2, err := GenerateOTP(7)
	if err != nil {
		t.Fatalf("Second GenerateOTP failed: %v", err)
	}

	// Not a guarantee, but a collision in a 9-million code space is a
	// strong signal something is wrong with the generator.
	if otp == otp2 {
		t.Logf("Two generated OTPs were identical: %s", otp)
	}

	_, err = GenerateOTP(2)
	if err == nil {
		t.Error("GenerateOTP should reject fewer than 4 digits")
	}
}
