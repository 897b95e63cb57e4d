package locale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocale(t *testing.T) {
	supported := []string{"en", "fr", "es"}

	tests := []struct {
		name   string
		def    string
		param  string
		accept string
		want   string
	}{
		{"explicit parameter wins", "en", "fr", "es-ES,es;q=0.9", "fr"},
		{"region stripped from parameter", "en", "fr-CA", "", "fr"},
		{"unsupported parameter falls through to header", "en", "de", "es", "es"},
		{"header matched over supported", "en", "", "de-DE,fr;q=0.8", "fr"},
		{"header without match uses default", "fr", "", "ja,zh;q=0.5", "fr"},
		{"nothing given uses default", "es", "", "", "es"},
		{"garbage header ignored", "en", "", ";;;", "en"},
		{"invalid default falls back to english", "", "", "", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLocale(tt.def, supported, tt.param, tt.accept)
			assert.Equal(t, tt.want, Code(got))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "pt", Normalize("pt-BR"))
	assert.Equal(t, "en", Normalize(" EN "))
	assert.Equal(t, "", Normalize("not a tag!"))
}

func TestContext(t *testing.T) {
	assert.Equal(t, Fallback, FromContext(context.Background()))
	ctx := WithLanguage(context.Background(), "fr")
	assert.Equal(t, "fr", FromContext(ctx))
}
