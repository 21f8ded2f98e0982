package validation

import (
	"strings"
	"testing"

	"github.com/dukerupert/tourmate/internal/apperr"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nickname string `json:"nickname" validate:"required,max=30"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      signup
		wantErr []string
	}{
		{"valid", signup{"a@example.com", "longenough", "jun"}, nil},
		{"missing email", signup{"", "longenough", "jun"}, []string{"email is required"}},
		{"bad email", signup{"nope", "longenough", "jun"}, []string{"email must be a valid email"}},
		{"short password and long nickname", signup{"a@example.com", "short", strings.Repeat("x", 31)},
			[]string{"password must be at least 8", "nickname must be at most 30"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if apperr.KindOf(err) != apperr.KindInvalid {
				t.Errorf("kind = %v, want invalid", apperr.KindOf(err))
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q missing %q", err.Error(), want)
				}
			}
		})
	}
}

func TestValidatorIsShared(t *testing.T) {
	if Validator() != Validator() {
		t.Error("expected the same validator instance")
	}
}
