package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_EXPIRES_IN", "REPORT_FETCH_TIMEOUT", "BUDGET_WARNING_THRESHOLD", "AMQP_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %s, want 15m", cfg.AccessTokenTTL)
	}
	if cfg.ReportFetchTimeout != 15*time.Second {
		t.Errorf("ReportFetchTimeout = %s, want 15s", cfg.ReportFetchTimeout)
	}
	if !cfg.BudgetWarningThreshold.Equal(decimal.NewFromInt(80)) {
		t.Errorf("BudgetWarningThreshold = %s, want 80", cfg.BudgetWarningThreshold)
	}
	if cfg.AMQPURL != "" {
		t.Errorf("AMQPURL = %q, want empty", cfg.AMQPURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REPORT_FETCH_TIMEOUT", "3s")
	t.Setenv("BUDGET_WARNING_THRESHOLD", "90.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.ReportFetchTimeout != 3*time.Second {
		t.Errorf("ReportFetchTimeout = %s, want 3s", cfg.ReportFetchTimeout)
	}
	if !cfg.BudgetWarningThreshold.Equal(decimal.RequireFromString("90.5")) {
		t.Errorf("BudgetWarningThreshold = %s, want 90.5", cfg.BudgetWarningThreshold)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{"bad_duration", "JWT_EXPIRES_IN", "soon", func(c *Config) bool { return c.AccessTokenTTL == 15*time.Minute }},
		{"negative_timeout", "REPORT_FETCH_TIMEOUT", "-5s", func(c *Config) bool { return c.ReportFetchTimeout == 15*time.Second }},
		{"threshold_not_number", "BUDGET_WARNING_THRESHOLD", "most", func(c *Config) bool { return c.BudgetWarningThreshold.Equal(decimal.NewFromInt(80)) }},
		{"threshold_above_100", "BUDGET_WARNING_THRESHOLD", "150", func(c *Config) bool { return c.BudgetWarningThreshold.Equal(decimal.NewFromInt(80)) }},
		{"threshold_zero", "BUDGET_WARNING_THRESHOLD", "0", func(c *Config) bool { return c.BudgetWarningThreshold.Equal(decimal.NewFromInt(80)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("%s=%q did not fall back to its default", tt.key, tt.value)
			}
		})
	}
}
