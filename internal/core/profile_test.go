package core

import (
	"testing"
)

func TestLoadProfile(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantName    string
		wantTimeout int
		wantLevel   string
		wantRO      bool
		wantOps     bool
	}{
		{name: "dev", in: "dev", wantName: "dev", wantTimeout: 10, wantLevel: "debug"},
		{name: "staging", in: "staging", wantName: "staging", wantTimeout: 10, wantLevel: "info", wantOps: true},
		{name: "prod", in: "prod", wantName: "prod", wantTimeout: 15, wantLevel: "info", wantOps: true},
		{name: "readonly", in: "readonly", wantName: "readonly", wantTimeout: 10, wantLevel: "info", wantRO: true, wantOps: true},
		{name: "empty defaults to dev", in: "", wantName: "dev", wantTimeout: 10, wantLevel: "debug"},
		{name: "case insensitive", in: "  PROD ", wantName: "prod", wantTimeout: 15, wantLevel: "info", wantOps: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LoadProfile(tt.in)
			if err != nil {
				t.Fatalf("LoadProfile(%q) error: %v", tt.in, err)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
			if p.RequestTimeoutSeconds != tt.wantTimeout {
				t.Errorf("RequestTimeoutSeconds = %d, want %d", p.RequestTimeoutSeconds, tt.wantTimeout)
			}
			if p.LogLevel != tt.wantLevel {
				t.Errorf("LogLevel = %q, want %q", p.LogLevel, tt.wantLevel)
			}
			if p.ReadOnly != tt.wantRO {
				t.Errorf("ReadOnly = %v, want %v", p.ReadOnly, tt.wantRO)
			}
			if p.OpsEnabled != tt.wantOps {
				t.Errorf("OpsEnabled = %v, want %v", p.OpsEnabled, tt.wantOps)
			}
		})
	}
}

func TestLoadProfile_Unknown(t *testing.T) {
	_, err := LoadProfile("production")
	if err == nil {
		t.Fatal("LoadProfile(production) expected error, got nil")
	}
}

func TestLoadProfile_ReturnsCopy(t *testing.T) {
	p1, _ := LoadProfile("dev")
	p1.RequestTimeoutSeconds = 99

	p2, _ := LoadProfile("dev")
	if p2.RequestTimeoutSeconds != 10 {
		t.Errorf("profile mutation leaked: RequestTimeoutSeconds = %d, want 10", p2.RequestTimeoutSeconds)
	}
}
