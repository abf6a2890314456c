package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("secret-password")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestExpiredTokenMatchesInvalidToken(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token error must match ErrInvalidToken")
	}
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token error must match ErrTokenExpired")
	}
}
