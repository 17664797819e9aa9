package validate

import (
	"testing"

	"github.com/google/uuid"
)

type form struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Name     *string `json:"first_name" validate:"required"`
}

func TestCheck(t *testing.T) {
	name := "Kratos"

	tests := []struct {
		name    string
		val     form
		wantErr string
	}{
		{
			name: "valid",
			val:  form{Email: "a@b.com", Password: "x", Name: &name},
		},
		{
			name:    "missing email uses json name",
			val:     form{Password: "x", Name: &name},
			wantErr: "email is a required field",
		},
		{
			name:    "bad email",
			val:     form{Email: "nope", Password: "x", Name: &name},
			wantErr: "email must be a valid email address",
		},
		{
			name:    "nil pointer is missing",
			val:     form{Email: "a@b.com", Password: "x"},
			wantErr: "first_name is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.val)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("expected error %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	if _, err := uuid.Parse(GenerateID()); err != nil {
		t.Fatalf("generated id is not a uuid: %v", err)
	}
}
