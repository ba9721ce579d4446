package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "cli.json")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{"server_endpoint_addr":"10.0.0.1:7000","request_timeout":"2s"}`), 0o600))

	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name:     "defaults",
			args:     []string{"whoami", "-token", "abc"},
			expected: &Config{ServerEndpointAddr: "127.0.0.1:50051", RequestTimeout: 5 * time.Second},
		},
		{
			name:     "flags",
			args:     []string{"-a", "127.0.0.1:9090", "-t", "10", "ping"},
			expected: &Config{ServerEndpointAddr: "127.0.0.1:9090", RequestTimeout: 10 * time.Second},
		},
		{
			name:     "json file",
			args:     []string{"-c", cfgFile, "ping"},
			expected: &Config{ServerEndpointAddr: "10.0.0.1:7000", RequestTimeout: 2 * time.Second},
		},
		{
			name:     "flags override json",
			args:     []string{"-c", cfgFile, "-a", "127.0.0.1:9090", "ping"},
			expected: &Config{ServerEndpointAddr: "127.0.0.1:9090", RequestTimeout: 2 * time.Second},
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, wantErr: true},
		{name: "missing file", args: []string{"-c", filepath.Join(dir, "nope.json")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
