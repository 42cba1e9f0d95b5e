package roamauth

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsServerError(t *testing.T) {
	se := &ServerError{StatusCode: 401, Message: "Invalid credentials"}

	got, ok := IsServerError(se)
	if !ok || got != se {
		t.Fatalf("IsServerError = (%v, %v)", got, ok)
	}
	if se.Error() != "Invalid credentials" {
		t.Fatalf("Error() = %q", se.Error())
	}

	wrapped := fmt.Errorf("login: %w", se)
	if got, ok := IsServerError(wrapped); !ok || got.StatusCode != 401 {
		t.Fatalf("IsServerError through wrapping = (%v, %v)", got, ok)
	}

	if _, ok := IsServerError(errors.New("plain")); ok {
		t.Fatal("IsServerError matched a plain error")
	}
	if _, ok := IsServerError(nil); ok {
		t.Fatal("IsServerError matched nil")
	}
}
