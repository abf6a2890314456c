package flagx

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	configFlags := []string{"-c", "-config", "--config"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-c", "server.json", "-a", ":8080"}, configFlags, []string{"-c", "server.json"}},
		{"equals form", []string{"-D", "sqlite", "--config=server.json"}, configFlags, []string{"--config=server.json"}},
		{"order preserved", []string{"-config=a.json", "-s", "k", "-c", "b.json"}, configFlags, []string{"-config=a.json", "-c", "b.json"}},
		{"nothing allowed present", []string{"-D", "memory", "-t", "30"}, configFlags, []string{}},
		{"dangling flag", []string{"-c"}, configFlags, []string{"-c"}},
		{"dash token is not a value", []string{"-c", "-D", "sqlite"}, configFlags, []string{"-c"}},
		{"several flag names", []string{"-d", "users.db", "-D", "sqlite", "-m", "production"}, []string{"-d", "-D"}, []string{"-d", "users.db", "-D", "sqlite"}},
		{"empty", nil, configFlags, []string{}},
		{"repeated", []string{"-env-file", ".env", "-env-file", ".env.local"}, []string{"-env-file"}, []string{"-env-file", ".env", "-env-file", ".env.local"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"falcon-server"}, args...)
}

func TestJsonConfigFlags(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		withArgs(t, "-c", "/etc/falcon/server.json")
		assert.Equal(t, "/etc/falcon/server.json", JsonConfigFlags())
	})

	t.Run("long wins when last", func(t *testing.T) {
		withArgs(t, "-c", "a.json", "-config", "b.json")
		assert.Equal(t, "b.json", JsonConfigFlags())
	})

	t.Run("other flags ignored", func(t *testing.T) {
		withArgs(t, "-s", "secret", "-D", "memory")
		assert.Empty(t, JsonConfigFlags())
	})
}

func TestEnvFileFlags(t *testing.T) {
	withArgs(t, "-a", ":9090", "-env-file=/srv/falcon/.env")
	assert.Equal(t, "/srv/falcon/.env", EnvFileFlags())

	withArgs(t)
	assert.Empty(t, EnvFileFlags())
}
