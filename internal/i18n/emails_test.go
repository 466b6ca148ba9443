package i18n

import (
	"strings"
	"testing"
)

func TestLoginCodeEmail_SubstitutesPlaceholders(t *testing.T) {
	t.Parallel()

	content := LoginCodeEmail("es", "123456", 10)
	if !strings.Contains(content.Text, "123456") {
		t.Fatalf("code missing from text: %q", content.Text)
	}
	if !strings.Contains(content.Text, "10") {
		t.Fatalf("minutes missing from text: %q", content.Text)
	}
	if strings.Contains(content.HTML, "{code}") || strings.Contains(content.HTML, "{minutes}") {
		t.Fatalf("unexpanded placeholder in HTML: %q", content.HTML)
	}
}

func TestPasswordResetEmail_Locales(t *testing.T) {
	t.Parallel()

	link := "http://localhost:3000/reset-password?token=abc"

	es := PasswordResetEmail("es", link, 1)
	en := PasswordResetEmail("en", link, 1)
	if es.Subject == en.Subject {
		t.Fatal("expected locale-specific subjects")
	}
	for _, content := range []EmailContent{es, en} {
		if !strings.Contains(content.Text, link) {
			t.Fatalf("link missing from text: %q", content.Text)
		}
		if !strings.Contains(content.HTML, link) {
			t.Fatalf("link missing from HTML: %q", content.HTML)
		}
	}
}

func TestPasswordResetEmail_UnknownLocaleFallsBack(t *testing.T) {
	t.Parallel()

	got := PasswordResetEmail("fr", "http://x/reset", 1)
	want := PasswordResetEmail(DefaultLocale, "http://x/reset", 1)
	if got != want {
		t.Fatalf("expected default-locale content, got %q", got.Subject)
	}
}

func TestNormalizeLocale(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                        "es",
		"es":                      "es",
		"en":                      "en",
		"EN-US":                   "en",
		"en-GB,en;q=0.9,es;q=0.8": "en",
		"fr-FR,fr;q=0.9":          "es",
		"fr, en;q=0.5":            "en",
	}
	for header, want := range cases {
		if got := NormalizeLocale(header); got != want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", header, got, want)
		}
	}
}
