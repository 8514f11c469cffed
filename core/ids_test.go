package core

import (
	"regexp"
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{
			name:   "valid prefix",
			prefix: "comm",
		},
		{
			name:   "valid short prefix",
			prefix: "sw",
		},
		{
			name:   "uppercase prefix gets lowercased",
			prefix: "SWEEP",
		},
		{
			name:   "prefix with spaces gets trimmed",
			prefix: "  comm  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewID(tt.prefix)

			// Check the format: prefix_ULID
			expectedPrefix := strings.ToLower(strings.TrimSpace(tt.prefix)) + "_"
			if !strings.HasPrefix(got, expectedPrefix) {
				t.Errorf("NewID() = %v, want prefix %v", got, expectedPrefix)
			}

			// Check ULID pattern: 26 characters, base32 encoded
			ulidPart := strings.TrimPrefix(got, expectedPrefix)
			if len(ulidPart) != 26 {
				t.Errorf("NewID() ULID part length = %v, want 26", len(ulidPart))
			}

			ulidPattern := regexp.MustCompile(`^[0123456789ABCDEFGHJKMNPQRSTVWXYZ]{26}$`)
			if !ulidPattern.MatchString(ulidPart) {
				t.Errorf("NewID() ULID part %v does not match expected pattern", ulidPart)
			}
		})
	}
}

func TestNewIDPanic(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{
			name:   "empty prefix panics",
			prefix: "",
		},
		{
			name:   "whitespace-only prefix panics",
			prefix: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("NewID(%q) did not panic", tt.prefix)
				}
			}()
			NewID(tt.prefix)
		})
	}
}

func TestIsValidULID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{
			name: "valid prefixed ULID",
			id:   NewID("comm"),
			want: true,
		},
		{
			name: "empty string",
			id:   "",
			want: false,
		},
		{
			name: "missing prefix",
			id:   "01G0EZ1XTM37C5X11SQTDNCTM1",
			want: false,
		},
		{
			name: "bad ULID length",
			id:   "comm_01G0EZ1XTM",
			want: false,
		},
		{
			name: "uppercase prefix rejected",
			id:   "COMM_01G0EZ1XTM37C5X11SQTDNCTM1",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidULID(tt.id); got != tt.want {
				t.Errorf("IsValidULID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
