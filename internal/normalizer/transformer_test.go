package normalizer

import (
	"reflect"
	"testing"

	"seowriter/internal/models"
)

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{" , ,", []string{}},
		{"a", []string{"a"}},
		{"fone bluetooth, fone sem fio ,  ", []string{"fone bluetooth", "fone sem fio"}},
	}

	for _, tt := range tests {
		if got := SplitKeywords(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitKeywords(%q) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}
}

func TestTransformer_CanonicalPlatform(t *testing.T) {
	tr := NewTransformer()

	tests := map[string]string{
		"mercado livre": models.PlatformMercadoLivre,
		" HOTMART ":     models.PlatformHotmart,
		"Kiwify":        models.PlatformKiwify,
		"Outra Loja":    "Outra Loja",
	}

	for in, want := range tests {
		if got := tr.CanonicalPlatform(in); got != want {
			t.Errorf("CanonicalPlatform(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitAffiliate(t *testing.T) {
	platform, link, ok := splitAffiliate("Shopee=https://s.example/?a=1")
	if !ok || platform != "Shopee" || link != "https://s.example/?a=1" {
		t.Errorf("splitAffiliate = (%q, %q, %v)", platform, link, ok)
	}

	for _, bad := range []string{"", "=", "Shopee", "=https://x", "Shopee=  "} {
		if _, _, ok := splitAffiliate(bad); ok {
			t.Errorf("splitAffiliate(%q) accepted malformed pair", bad)
		}
	}
}
