package validation

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "valid relative path",
			path:    "./components/speed-dial.html",
			wantErr: false,
		},
		{
			name:    "valid filename",
			path:    "component.html",
			wantErr: false,
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name:    "path traversal with dots",
			path:    "../../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "interior traversal",
			path:    "components/../../outside/file.html",
			wantErr: true,
		},
		{
			name:    "dotted directory name is fine",
			path:    "components/..hidden/file.html",
			wantErr: false,
		},
		{
			name:    "path with dangerous characters",
			path:    "file; rm -rf /",
			wantErr: true,
		},
		{
			name:    "path with command substitution",
			path:    "file$(whoami).html",
			wantErr: true,
		},
		{
			name:    "path with null byte",
			path:    "file\x00.html",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateScanPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "relative components dir",
			path:    "./components",
			wantErr: false,
		},
		{
			name:    "nested relative dir",
			path:    "src/marklets",
			wantErr: false,
		},
		{
			name:    "absolute path rejected",
			path:    "/etc/components",
			wantErr: true,
		},
		{
			name:    "traversal rejected",
			path:    "../shared/components",
			wantErr: true,
		},
		{
			name:    "empty rejected",
			path:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScanPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScanPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "dist dir",
			path:    "dist",
			wantErr: false,
		},
		{
			name:    "nested output",
			path:    "build/out",
			wantErr: false,
		},
		{
			name:    "absolute rejected",
			path:    "/var/www/dist",
			wantErr: true,
		},
		{
			name:    "traversal rejected",
			path:    "../dist",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateExcludePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{
			name:    "draft suffix",
			pattern: "*_draft.html",
			wantErr: false,
		},
		{
			name:    "backup extension",
			pattern: "*.bak",
			wantErr: false,
		},
		{
			name:    "empty pattern",
			pattern: "",
			wantErr: true,
		},
		{
			name:    "malformed character class",
			pattern: "[a-",
			wantErr: true,
		},
		{
			name:    "traversal in pattern",
			pattern: "../*.html",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExcludePattern(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExcludePattern() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal text",
			input:    "Speed Dial",
			expected: "Speed Dial",
		},
		{
			name:     "text with null bytes",
			input:    "Speed\x00Dial",
			expected: "SpeedDial",
		},
		{
			name:     "text with control characters",
			input:    "Speed\x01\x02Dial",
			expected: "SpeedDial",
		},
		{
			name:     "preserve allowed whitespace",
			input:    "Speed\t\n\rDial",
			expected: "Speed\t\n\rDial",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeInput(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeInput() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func BenchmarkValidatePath(b *testing.B) {
	path := "./components/speed-dial.html"
	for i := 0; i < b.N; i++ {
		ValidatePath(path)
	}
}

func BenchmarkSanitizeInput(b *testing.B) {
	input := "Speed Dial with some\x00null\x01bytes"
	for i := 0; i < b.N; i++ {
		SanitizeInput(input)
	}
}
