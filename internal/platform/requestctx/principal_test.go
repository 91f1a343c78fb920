package requestctx

import (
	"context"
	"testing"
)

func TestPrincipalRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), "alice")
	if got := PrincipalFromContext(ctx); got != "alice" {
		t.Fatalf("principal = %q, want %q", got, "alice")
	}
	if got := PrincipalFromContext(context.Background()); got != "" {
		t.Fatalf("principal = %q, want empty", got)
	}
}

func TestLocaleRoundTrip(t *testing.T) {
	ctx := WithLocale(WithPrincipal(context.Background(), "bob"), "pt-BR")
	if got := LocaleFromContext(ctx); got != "pt-BR" {
		t.Fatalf("locale = %q, want %q", got, "pt-BR")
	}
	if got := PrincipalFromContext(ctx); got != "bob" {
		t.Fatalf("principal = %q, want %q", got, "bob")
	}
}

func TestNilContextIsSafe(t *testing.T) {
	if PrincipalFromContext(nil) != "" || LocaleFromContext(nil) != "" {
		t.Fatal("expected empty values from nil context")
	}
	if got := PrincipalFromContext(WithPrincipal(nil, "carol")); got != "carol" {
		t.Fatalf("principal = %q, want %q", got, "carol")
	}
}
