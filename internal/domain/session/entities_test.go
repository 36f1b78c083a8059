package session

import "testing"

func TestDisplayNameFor(t *testing.T) {
	cases := []struct{ name, email, want string }{
		{"Ada Lovelace", "ada@example.com", "Ada"},
		{"", "grace.hopper@example.com", "grace.hopper"},
		{"   ", "linus@example.com", "linus"},
	}
	for _, tc := range cases {
		if got := DisplayNameFor(tc.name, tc.email); got != tc.want {
			t.Errorf("DisplayNameFor(%q,%q) = %q, want %q", tc.name, tc.email, got, tc.want)
		}
	}
}

func TestOAuthProvider_Valid(t *testing.T) {
	if !ProviderGoogle.Valid() || !ProviderGitHub.Valid() || OAuthProvider("twitter").Valid() {
		t.Fatal("provider validity")
	}
}
