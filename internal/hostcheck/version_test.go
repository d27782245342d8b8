// SPDX-License-Identifier: MPL-2.0

package hostcheck

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{"major.minor", "3.11", Version{3, 11}, false},
		{"major.minor.patch", "4.5.2", Version{4, 5}, false},
		{"leading v", "v4.5.2", Version{4, 5}, false},
		{"patch suffix junk", "4.5.2+dfsg", Version{4, 5}, false},
		{"surrounding whitespace", " 3.10 ", Version{3, 10}, false},
		{"major only", "4", Version{}, true},
		{"empty", "", Version{}, true},
		{"non-numeric major", "x.5", Version{}, true},
		{"non-numeric minor", "4.y", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVersion(%q) returned nil error, want error", tt.input)
				}
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("error should wrap ErrInvalidVersion, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) returned unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		current  Version
		required Version
		wantErr  bool
	}{
		{"minor below minimum fails", Version{3, 10}, Version{3, 11}, true},
		{"exact match passes", Version{3, 11}, Version{3, 11}, false},
		{"newer minor passes", Version{3, 12}, Version{3, 11}, false},
		{"newer major fails", Version{4, 0}, Version{3, 11}, true},
		{"older major fails", Version{2, 99}, Version{3, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckVersion(tt.current, tt.required)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckVersion(%v, %v) error = %v, wantErr %v", tt.current, tt.required, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrIncompatibleHost) {
					t.Errorf("error should wrap ErrIncompatibleHost, got: %v", err)
				}
				var ihErr *IncompatibleHostError
				if !errors.As(err, &ihErr) {
					t.Fatalf("error should be *IncompatibleHostError, got: %T", err)
				}
				if ihErr.Current != tt.current || ihErr.Required != tt.required {
					t.Errorf("IncompatibleHostError carries %v/%v, want %v/%v",
						ihErr.Current, ihErr.Required, tt.current, tt.required)
				}
			}
		})
	}
}

func TestVersion_String(t *testing.T) {
	t.Parallel()

	if got := (Version{Major: 4, Minor: 5}).String(); got != "4.5" {
		t.Errorf("Version{4,5}.String() = %q, want %q", got, "4.5")
	}
}
