package version

import "testing"

func TestGetVersionInfo_Defaults(t *testing.T) {
	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Errorf("expected dev version, got %s", info.Version)
	}
	if info.IsRelease {
		t.Error("dev builds should not be releases")
	}
	if info.BuildDate.IsZero() {
		t.Error("expected non-zero build date fallback")
	}
	if info.BuildTime == "" {
		t.Error("expected build time fallback")
	}
}

func TestGetVersionInfo_ReleaseDetection(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.0"
	if !GetVersionInfo().IsRelease {
		t.Error("tagged version should be a release")
	}

	Version = "1.2.0-dirty"
	if GetVersionInfo().IsRelease {
		t.Error("dirty version should not be a release")
	}
}
