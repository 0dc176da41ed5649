package semver

import (
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.2.3", want: Version{1, 2, 3}},
		{in: "v0.4.0", want: Version{0, 4, 0}},
		{in: "  2.0.1\n", want: Version{2, 0, 1}},
		{in: "1.2", wantErr: true},
		{in: "1.2.x", wantErr: true},
		{in: "1.-2.3", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBump(t *testing.T) {
	v := Version{1, 2, 3}

	major, err := v.Bump("major")
	if err != nil || major != (Version{2, 0, 0}) {
		t.Errorf("Bump(major) = %v, %v", major, err)
	}

	minor, err := v.Bump("minor")
	if err != nil || minor != (Version{1, 3, 0}) {
		t.Errorf("Bump(minor) = %v, %v", minor, err)
	}

	patch, err := v.Bump("patch")
	if err != nil || patch != (Version{1, 2, 4}) {
		t.Errorf("Bump(patch) = %v, %v", patch, err)
	}

	if _, err := v.Bump("nano"); err == nil {
		t.Error("Bump(nano) expected error")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "VERSION")

	if err := WriteFile(path, Version{0, 3, 1}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != (Version{0, 3, 1}) {
		t.Errorf("ReadFile() = %v, want 0.3.1", got)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "VERSION")); err == nil {
		t.Error("ReadFile() expected error for missing file")
	}
}
