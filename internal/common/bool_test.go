package common

import (
	"errors"
	"testing"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"TRUE", true, false},
		{"False", false, false},
		{"yes", false, true},
		{"1", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		got, err := ParseBool(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseBool(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("ParseBool(%q) err = %v, want ErrInvalidConfig", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseBool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
