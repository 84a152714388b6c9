package config

import (
	"testing"
	"time"
)

func TestLoadLLMTimeout(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"default", "", 120 * time.Second},
		{"explicit", "30", 30 * time.Second},
		{"clamped low", "1", 10 * time.Second},
		{"clamped high", "9999", 600 * time.Second},
		{"invalid", "soon", 120 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("LLM_TIMEOUT_SECONDS", tc.raw)
			if got := Load().LLMTimeout; got != tc.want {
				t.Errorf("LLMTimeout = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLoadClampsAnalysisTuning(t *testing.T) {
	t.Setenv("ANALYSIS_CHUNK_SIZE", "999999")
	t.Setenv("ANALYSIS_REQUEST_DELAY", "0")
	cfg := Load()
	if cfg.ChunkSize != 50000 {
		t.Errorf("ChunkSize = %d, want 50000", cfg.ChunkSize)
	}
	if cfg.RequestDelay != time.Second {
		t.Errorf("RequestDelay = %v, want 1s", cfg.RequestDelay)
	}
}
