package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHolidaysCommand(t *testing.T) {
	tests := []struct {
		name     string
		extra    string
		args     []string
		contains []string
		wantErr  bool
	}{
		{
			name: "friday three business days",
			args: []string{"holidays", "3", "--from", "2026-10-23T10:00:00Z"},
			contains: []string{
				"holidays:",
				"cutoff for 3 business days before 2026-10-23T10:00:00Z: 2026-10-20T10:00:00Z",
			},
		},
		{
			name:  "configured holiday is skipped",
			extra: "2026-10-22",
			args:  []string{"holidays", "3", "--from", "2026-10-23T10:00:00Z"},
			contains: []string{
				"2026-10-22",
				"2026-10-19T10:00:00Z",
			},
		},
		{name: "zero days", args: []string{"holidays", "0"}, wantErr: true},
		{name: "not a number", args: []string{"holidays", "three"}, wantErr: true},
		{name: "bad reference", args: []string{"holidays", "1", "--from", "yesterday"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOLIDAY_DATES", tt.extra)

			out, err := runRoot(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRootRegistersCommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"start", "migrate", "seed", "worker", "holidays"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
