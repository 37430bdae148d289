package services

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		pw      string
		wantErr bool
	}{
		{"valid", "password1", false},
		{"too short", "pass1", true},
		{"no digit", "passwordd", true},
		{"exactly eight with digit", "abcdefg1", false},
		{"empty", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.pw)
			if (err != nil) != tc.wantErr {
				t.Errorf("validatePassword(%q) error = %v, wantErr %v", tc.pw, err, tc.wantErr)
			}
		})
	}
}

func TestEmailRegex(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.org"}
	invalid := []string{"", "plainaddress", "user@", "@example.com", "user@host"}

	for _, email := range valid {
		if !emailRegex.MatchString(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}
	for _, email := range invalid {
		if emailRegex.MatchString(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := generateToken(64)
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}
	if len(a) != 128 {
		t.Fatalf("expected 128 hex chars, got %d", len(a))
	}

	b, _ := generateToken(64)
	if a == b {
		t.Fatal("two generated tokens should not collide")
	}
}
