package startup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
			setEnv:       false,
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				// Ensure the variable is not set
				os.Unsetenv(tt.key)
				t.Cleanup(func() {
					os.Unsetenv(tt.key)
				})
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue bool
		want         bool
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_BOOL_UNSET",
			defaultValue: true,
			want:         true,
			setEnv:       false,
		},
		{
			name:         "Returns default false when env var not set",
			key:          "TEST_BOOL_UNSET2",
			defaultValue: false,
			want:         false,
			setEnv:       false,
		},
		{
			name:         "Returns true when env var is 'true'",
			key:          "TEST_BOOL_TRUE",
			envValue:     "true",
			defaultValue: false,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns false when env var is 'false'",
			key:          "TEST_BOOL_FALSE",
			envValue:     "false",
			defaultValue: true,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns true when env var is '1'",
			key:          "TEST_BOOL_ONE",
			envValue:     "1",
			defaultValue: false,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns false when env var is '0'",
			key:          "TEST_BOOL_ZERO",
			envValue:     "0",
			defaultValue: true,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns true when env var is 'T'",
			key:          "TEST_BOOL_T_UPPER",
			envValue:     "T",
			defaultValue: false,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns false when env var is 'FALSE'",
			key:          "TEST_BOOL_FALSE_UPPER",
			envValue:     "FALSE",
			defaultValue: true,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is invalid",
			key:          "TEST_BOOL_INVALID",
			envValue:     "not-a-bool",
			defaultValue: true,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty string",
			key:          "TEST_BOOL_EMPTY",
			envValue:     "",
			defaultValue: false,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is 'yes'",
			key:          "TEST_BOOL_YES",
			envValue:     "yes",
			defaultValue: false,
			want:         false,
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v (env: %q)", tt.key, tt.defaultValue, got, tt.want, tt.envValue)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue int
		want         int
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_INT_UNSET",
			defaultValue: 42,
			want:         42,
			setEnv:       false,
		},
		{
			name:         "Returns parsed value when set",
			key:          "TEST_INT_SET",
			envValue:     "7",
			defaultValue: 42,
			want:         7,
			setEnv:       true,
		},
		{
			name:         "Parses negative values",
			key:          "TEST_INT_NEGATIVE",
			envValue:     "-3",
			defaultValue: 42,
			want:         -3,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is invalid",
			key:          "TEST_INT_INVALID",
			envValue:     "not-a-number",
			defaultValue: 42,
			want:         42,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is a float",
			key:          "TEST_INT_FLOAT",
			envValue:     "3.5",
			defaultValue: 42,
			want:         42,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_INT_EMPTY",
			envValue:     "",
			defaultValue: 42,
			want:         42,
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt(%q, %d) = %d, want %d (env: %q)", tt.key, tt.defaultValue, got, tt.want, tt.envValue)
			}
		})
	}
}

func TestValidQuality(t *testing.T) {
	tests := []struct {
		name         string
		value        int
		defaultValue int
		want         int
	}{
		{"In range", 75, 80, 75},
		{"Lower bound", 1, 80, 1},
		{"Upper bound", 100, 80, 100},
		{"Zero rejected", 0, 80, 80},
		{"Negative rejected", -5, 92, 92},
		{"Above 100 rejected", 150, 90, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validQuality("TEST_QUALITY", tt.value, tt.defaultValue); got != tt.want {
				t.Errorf("validQuality(%d, %d) = %d, want %d", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestEnabledString(t *testing.T) {
	if got := enabledString(true); got != "ENABLED" {
		t.Errorf("enabledString(true) = %q, want ENABLED", got)
	}
	if got := enabledString(false); got != "DISABLED" {
		t.Errorf("enabledString(false) = %q, want DISABLED", got)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"Empty output", "", ""},
		{"Only newlines", "\n\n\n", ""},
		{"Single line", "dcraw v9.28", "dcraw v9.28"},
		{"Banner after blank lines", "\n\nRaw photo decoder\nusage: ...", "Raw photo decoder"},
		{"Whitespace trimmed", "  banner  \nrest", "banner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstLine([]byte(tt.output)); got != tt.want {
				t.Errorf("firstLine(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestEnsureDirectory(t *testing.T) {
	t.Run("Creates missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "newdir")

		if err := ensureDirectory(path, "test"); err != nil {
			t.Fatalf("ensureDirectory returned error: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Expected directory to exist: %v", err)
		}
		if !info.IsDir() {
			t.Error("Expected a directory")
		}
	})

	t.Run("Accepts existing directory", func(t *testing.T) {
		if err := ensureDirectory(t.TempDir(), "test"); err != nil {
			t.Errorf("ensureDirectory returned error: %v", err)
		}
	})

	t.Run("Rejects regular file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}

		if err := ensureDirectory(path, "test"); err == nil {
			t.Error("Expected error for a regular file")
		}
	})
}

func TestTestWriteAccess(t *testing.T) {
	t.Run("Writable directory", func(t *testing.T) {
		if err := testWriteAccess(t.TempDir()); err != nil {
			t.Errorf("Expected no error for writable directory, got %v", err)
		}
	})

	t.Run("Missing directory", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "does", "not", "exist")
		if err := testWriteAccess(missing); err == nil {
			t.Error("Expected error for missing directory")
		}
	})
}

func BenchmarkGetEnv(b *testing.B) {
	b.Setenv("BENCH_TEST_VAR", "test-value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getEnv("BENCH_TEST_VAR", "default")
	}
}

func BenchmarkGetEnvBool(b *testing.B) {
	b.Setenv("BENCH_TEST_BOOL", "true")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getEnvBool("BENCH_TEST_BOOL", false)
	}
}

func BenchmarkGetEnvInt(b *testing.B) {
	b.Setenv("BENCH_TEST_INT", "12345")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getEnvInt("BENCH_TEST_INT", 0)
	}
}
