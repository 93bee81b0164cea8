package entity_test

import (
	"errors"
	"testing"

	"github.com/AuroraDai/weihao/internal/domain/entity"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "aapl", want: "AAPL"},
		{name: "already upper", in: "MSFT", want: "MSFT"},
		{name: "class share dot", in: "brk.b", want: "BRK.B"},
		{name: "class share dash", in: "rds-a", want: "RDS-A"},
		{name: "surrounding space", in: "  nvda ", want: "NVDA"},
		{name: "empty", in: "", wantErr: true},
		{name: "too long", in: "ABCDEFGH", wantErr: true},
		{name: "path injection", in: "../etc", wantErr: true},
		{name: "spaces inside", in: "AA PL", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entity.NormalizeTicker(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeTicker(%q) expected error, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeTicker(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeTicker(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTicker_ErrorMatchesSentinel(t *testing.T) {
	_, err := entity.NormalizeTicker("not a ticker")
	if err == nil {
		t.Fatal("expected error for invalid ticker")
	}
	if !errors.Is(err, entity.ErrValidationFailed) {
		t.Fatalf("error %v does not match ErrValidationFailed", err)
	}

	var vErr *entity.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error %v is not a *ValidationError", err)
	}
	if vErr.Field != "ticker" {
		t.Fatalf("Field = %q, want %q", vErr.Field, "ticker")
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "https ok", in: "https://finviz.com/news/12345/article"},
		{name: "http ok", in: "http://example.com/a"},
		{name: "empty", in: "", wantErr: true},
		{name: "ftp scheme", in: "ftp://example.com/a", wantErr: true},
		{name: "no host", in: "https://", wantErr: true},
		{name: "relative", in: "/news/12345/article", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := entity.ValidateURL(tt.in, false)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}
