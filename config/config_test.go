package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateReportsMissingVariables(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty config, got nil")
	}
	for _, name := range []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err.Error(), name)
		}
	}
}

func TestValidatePassesWithSecrets(t *testing.T) {
	cfg := &Config{
		MinioEndpoint:  "minio.local:9000",
		MinioAccessKey: "access",
		MinioSecretKey: "secret",
		JWTSecret:      "jwt-secret",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestValidateReportsOnlyMissing(t *testing.T) {
	cfg := &Config{
		MinioEndpoint:  "minio.local:9000",
		MinioAccessKey: "access",
		MinioSecretKey: "secret",
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing JWT_SECRET, got nil")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error %q does not mention JWT_SECRET", err.Error())
	}
	if strings.Contains(err.Error(), "MINIO_ENDPOINT") {
		t.Errorf("error %q mentions MINIO_ENDPOINT, which is set", err.Error())
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerAddr == "" {
		t.Error("ServerAddr should have a default")
	}
	if cfg.FFmpegPath == "" {
		t.Error("FFmpegPath should have a default")
	}
	if cfg.ScratchDir == "" {
		t.Error("ScratchDir should have a default")
	}
	if cfg.ConvertTimeout <= 0 {
		t.Errorf("ConvertTimeout should be positive, got %v", cfg.ConvertTimeout)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("CONVERT_TIMEOUT", "90s")
	t.Setenv("AUDIO_BITRATE", "128k")

	cfg := Load()

	if cfg.ServerAddr != ":9999" {
		t.Errorf("ServerAddr = %q, want :9999", cfg.ServerAddr)
	}
	if cfg.ConvertTimeout != 90*time.Second {
		t.Errorf("ConvertTimeout = %v, want 90s", cfg.ConvertTimeout)
	}
	if cfg.AudioBitrate != "128k" {
		t.Errorf("AudioBitrate = %q, want 128k", cfg.AudioBitrate)
	}
}

func TestLoadIgnoresMalformedDuration(t *testing.T) {
	t.Setenv("CONVERT_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.ConvertTimeout != 5*time.Minute {
		t.Errorf("ConvertTimeout = %v, want default 5m", cfg.ConvertTimeout)
	}
}
