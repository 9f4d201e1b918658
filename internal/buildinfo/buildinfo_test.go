package buildinfo

import "testing"

func TestRelease(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	tests := []struct {
		version string
		commit  string
		want    string
	}{
		{"", "", "dev"},
		{"v1.2.0", "", "v1.2.0"},
		{"", "abc1234", "abc1234"},
		{"v1.2.0", "abc1234", "v1.2.0+abc1234"},
	}

	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Release(); got != tt.want {
			t.Errorf("Release() with version=%q commit=%q = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}
