package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/cold/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "cold" {
		t.Errorf("container_name: got %s, want cold", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "decisions")
	t.Setenv("TEST_CONN", "override-connection")
	t.Setenv("TEST_ACCOUNT_URL", "https://coldstore.blob.core.windows.net/")

	env := &storage.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
		AccountURL:       "TEST_ACCOUNT_URL",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "decisions" {
		t.Errorf("container_name: got %s, want decisions", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
	if cfg.AccountURL != "https://coldstore.blob.core.windows.net/" {
		t.Errorf("account_url: got %s", cfg.AccountURL)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "missing credentials",
			cfg:     storage.Config{ContainerName: "decisions"},
			wantErr: "connection_string or account_url required",
		},
		{
			name: "connection string only",
			cfg:  storage.Config{ConnectionString: "conn"},
		},
		{
			name: "account url only",
			cfg:  storage.Config{AccountURL: "https://coldstore.blob.core.windows.net/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		ContainerName:    "cold",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{AccountURL: "https://coldstore.blob.core.windows.net/"}
	base.Merge(&overlay)

	if base.ContainerName != "cold" {
		t.Errorf("container_name should remain cold, got %s", base.ContainerName)
	}
	if base.ConnectionString != "base-conn" {
		t.Errorf("connection_string: got %s, want base-conn", base.ConnectionString)
	}
	if base.AccountURL != "https://coldstore.blob.core.windows.net/" {
		t.Errorf("account_url: got %s", base.AccountURL)
	}
}
