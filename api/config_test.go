package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expected      Config
		expectedError string
	}{
		{
			name: "Defaults",
			env:  map[string]string{"BASE_URL_API": "https://events.example.com"},
			expected: Config{
				Port:           "8080",
				BaseURLAPI:     "https://events.example.com",
				RequestTimeout: 30 * time.Second,
				MaxUploadBytes: 10485760,
				FormTTL:        2 * time.Hour,
			},
		},
		{
			name: "Overrides",
			env: map[string]string{
				"BASE_URL_API":     "http://localhost:5000",
				"PORT":             "9090",
				"DATABASE_URL":     "postgres://user:pw@localhost:5432/attendance",
				"REQUEST_TIMEOUT":  "5s",
				"MAX_UPLOAD_BYTES": "2048",
				"FORM_TTL":         "15m",
			},
			expected: Config{
				Port:           "9090",
				BaseURLAPI:     "http://localhost:5000",
				DSN:            "postgres://user:pw@localhost:5432/attendance",
				RequestTimeout: 5 * time.Second,
				MaxUploadBytes: 2048,
				FormTTL:        15 * time.Minute,
			},
		},
		{
			name:          "Missing base URL",
			env:           map[string]string{},
			expectedError: "BASE_URL_API is required",
		},
		{
			name:          "Bad timeout",
			env:           map[string]string{"BASE_URL_API": "http://x", "REQUEST_TIMEOUT": "30"},
			expectedError: "REQUEST_TIMEOUT must be a duration such as 30s",
		},
		{
			name:          "Bad TTL",
			env:           map[string]string{"BASE_URL_API": "http://x", "FORM_TTL": "soon"},
			expectedError: "FORM_TTL must be a duration such as 2h",
		},
		{
			name:          "Non-positive upload limit",
			env:           map[string]string{"BASE_URL_API": "http://x", "MAX_UPLOAD_BYTES": "0"},
			expectedError: "MAX_UPLOAD_BYTES must be a positive number of bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"BASE_URL_API", "PORT", "DATABASE_URL", "REQUEST_TIMEOUT", "MAX_UPLOAD_BYTES", "FORM_TTL"} {
				t.Setenv(key, tt.env[key])
			}

			cfg, err := configFromEnv()
			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestDBNameFromDSN(t *testing.T) {
	assert.Equal(t, "attendance", dbNameFromDSN("postgres://user:pw@localhost:5432/attendance?sslmode=disable"))
	assert.Equal(t, "attendance", dbNameFromDSN("host=localhost user=u dbname=attendance sslmode=disable"))
	assert.Equal(t, "", dbNameFromDSN("host=localhost"))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", logLevel("debug").String())
	assert.Equal(t, "WARN", logLevel("warn").String())
	assert.Equal(t, "ERROR", logLevel("error").String())
	assert.Equal(t, "INFO", logLevel("").String())
}
