package core_test

import (
	"context"
	"strings"
	"testing"

	"retail-backoffice/internal/core"

	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticate_CaseInsensitiveLookup(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	users := core.NewUserService(pool)
	t.Setenv("ADMIN_PASSWORD", "secret-pass")
	if err := users.EnsureAdmin(ctx); err != nil {
		t.Fatal(err)
	}

	for _, login := range []string{"Admin", "ADMIN", "admin@shop.local", "ADMIN@SHOP.LOCAL"} {
		if _, err := users.Authenticate(ctx, login, "secret-pass"); err != nil {
			t.Errorf("login %q rejected: %v", login, err)
		}
	}
	if _, err := users.Authenticate(ctx, "Admin", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestAuthenticate_HealsPlainTextPassword(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	// Legacy row: password stored in the clear.
	_, err := pool.Exec(ctx, `
		INSERT INTO users (name, email, password_hash) VALUES ('Admin', 'admin@shop.local', 'legacy-pass')
	`)
	if err != nil {
		t.Fatal(err)
	}

	users := core.NewUserService(pool)
	if _, err := users.Authenticate(ctx, "admin", "legacy-pass"); err != nil {
		t.Fatalf("plain-text login rejected: %v", err)
	}

	var stored string
	if err := pool.QueryRow(ctx, "SELECT password_hash FROM users LIMIT 1").Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stored, "$2") {
		t.Errorf("password not rehashed: %q", stored)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte("legacy-pass")) != nil {
		t.Error("healed hash does not verify the original password")
	}

	// And the healed hash still works on the next login.
	if _, err := users.Authenticate(ctx, "admin", "legacy-pass"); err != nil {
		t.Errorf("login after healing rejected: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	users := core.NewUserService(pool)
	t.Setenv("ADMIN_PASSWORD", "first-pass")
	if err := users.EnsureAdmin(ctx); err != nil {
		t.Fatal(err)
	}

	if err := users.ChangePassword(ctx, "wrong", "new-password"); err == nil {
		t.Error("change with wrong current password accepted")
	}
	if err := users.ChangePassword(ctx, "first-pass", "short"); err == nil {
		t.Error("too-short new password accepted")
	}
	if err := users.ChangePassword(ctx, "first-pass", "new-password"); err != nil {
		t.Fatal(err)
	}
	if _, err := users.Authenticate(ctx, "admin", "new-password"); err != nil {
		t.Errorf("login with new password rejected: %v", err)
	}
}
