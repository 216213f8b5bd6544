package services

import (
	"context"
	"testing"
	"time"

	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
)

func newAuth() (AuthService, *memUsers, *memProfiles) {
	users, profiles := newMemUsers(), newMemProfiles()
	return NewAuthService(users, profiles, "secret", time.Hour), users, profiles
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, profiles := newAuth()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Username:    "bob",
		Email:       "bob@example.com",
		Password:    "s3cret-pass",
		Role:        "business",
		PhoneNumber: "555-0100",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.User.Role != models.RoleBusiness || res.Token == "" {
		t.Fatalf("result = %+v", res)
	}
	if p := profiles.byUser[res.User.ID]; p == nil || p.PhoneNumber != "555-0100" {
		t.Fatalf("phone not stored on profile: %+v", p)
	}

	claims, err := utils.ParseToken("secret", res.Token)
	if err != nil || claims.Subject != res.User.ID || claims.Role != "BUSINESS" {
		t.Fatalf("claims = %+v, err = %v", claims, err)
	}

	login, err := svc.Login(ctx, "bob", "s3cret-pass")
	if err != nil || login.User.ID != res.User.ID {
		t.Fatalf("login = %+v, err = %v", login, err)
	}
}

func TestRegisterDefaultsToSeeker(t *testing.T) {
	svc, _, _ := newAuth()
	res, err := svc.Register(context.Background(), RegisterInput{Username: "amy", Email: "amy@example.com", Password: "long-enough"})
	if err != nil {
		t.Fatal(err)
	}
	if res.User.Role != models.RoleSeeker {
		t.Fatalf("role = %s", res.User.Role)
	}
}

func TestRegisterRejects(t *testing.T) {
	svc, _, _ := newAuth()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "amy", Email: "amy@example.com", Password: "long-enough"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   RegisterInput
		code utils.Code
	}{
		{"duplicate username", RegisterInput{Username: "amy", Email: "other@example.com", Password: "long-enough"}, utils.CodeConflict},
		{"bad email", RegisterInput{Username: "x", Email: "nope", Password: "long-enough"}, utils.CodeInvalidArgument},
		{"short password", RegisterInput{Username: "x", Email: "x@example.com", Password: "short"}, utils.CodeInvalidArgument},
		{"unknown role", RegisterInput{Username: "x", Email: "x@example.com", Password: "long-enough", Role: "ADMIN"}, utils.CodeInvalidArgument},
		{"missing username", RegisterInput{Email: "x@example.com", Password: "long-enough"}, utils.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			if !utils.IsCode(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newAuth()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "amy", Email: "amy@example.com", Password: "long-enough"}); err != nil {
		t.Fatal(err)
	}

	for _, pw := range []string{"wrong-password", ""} {
		if _, err := svc.Login(ctx, "amy", pw); !utils.IsCode(err, utils.CodeInvalidArgument) {
			t.Fatalf("password %q: err = %v", pw, err)
		}
	}
	if _, err := svc.Login(ctx, "ghost", "long-enough"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("unknown user: err = %v", err)
	}
}
