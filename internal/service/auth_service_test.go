package service

import (
	"errors"
	"testing"
	"time"

	"mquest_backend/internal/config"
	"mquest_backend/internal/model"
	"mquest_backend/internal/repository"
	"mquest_backend/internal/util"

	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	user := &model.User{Username: "student1", Password: "pass1234", Nickname: "たろう"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "pass1234" {
		t.Error("password must be stored hashed")
	}
	if user.Role != model.Student {
		t.Errorf("role = %s, want student by default", user.Role)
	}
	if !user.IsFirstLogin {
		t.Error("new accounts must start with the first-login flag set")
	}

	result, err := svc.Login("student1", "pass1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Error("login must issue a token")
	}
	if !result.IsFirstLogin {
		t.Error("login result must surface the first-login flag")
	}

	if _, err := svc.Login("student1", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody", "pass1234"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	first := &model.User{Username: "dup", Password: "pass1234"}
	if err := svc.Register(first); err != nil {
		t.Fatalf("register: %v", err)
	}

	second := &model.User{Username: "dup", Password: "other"}
	if err := svc.Register(second); !errors.Is(err, util.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestChangePasswordClearsFirstLoginFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(db)

	user := &model.User{Username: "changer", Password: "initial1"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong", "newpass1"); !errors.Is(err, util.ErrPasswordMismatch) {
		t.Errorf("err = %v, want ErrPasswordMismatch", err)
	}

	if err := svc.ChangePassword(user.ID, "initial1", "newpass1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	result, err := svc.Login("changer", "newpass1")
	if err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if result.IsFirstLogin {
		t.Error("first-login flag must be cleared after a password change")
	}

	if _, err := svc.Login("changer", "initial1"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Error("old password must no longer work")
	}
}
