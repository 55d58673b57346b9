package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/litsearch/internal/domain"
)

func ptr(f float64) *float64 { return &f }

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		alpha   *float64
		wantErr bool
	}{
		{"plain", "knee pain", nil, false},
		{"alpha override", "knee pain", ptr(0.5), false},
		{"alpha bounds", "knee pain", ptr(1), false},
		{"empty", "", nil, true},
		{"whitespace", "   ", nil, true},
		{"too long", strings.Repeat("a", MaxQueryLength+1), nil, true},
		{"alpha negative", "q", ptr(-0.1), true},
		{"alpha above one", "q", ptr(1.5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.query, tt.alpha)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestAlphaFinal(t *testing.T) {
	r, _ := New("q", nil)
	if got := r.AlphaFinal(0.7); got != 0.7 {
		t.Errorf("AlphaFinal() = %v, want default", got)
	}

	a := 0.2
	r, _ = New("q", &a)
	a = 0.9
	if got := r.AlphaFinal(0.7); got != 0.2 {
		t.Errorf("AlphaFinal() = %v, want 0.2", got)
	}
}
