package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	opts, err := cfg.CompileOptions()
	if err != nil {
		t.Fatalf("CompileOptions: %v", err)
	}
	if opts.Layout.Keys() != "STKPWHRAO*EUFRPBLGTSDZ" {
		t.Errorf("layout keys = %q", opts.Layout.Keys())
	}
	if !opts.Sink.SortKeys {
		t.Error("sort_keys should default to true")
	}
}

func TestLayoutConfig_Invalid(t *testing.T) {
	tests := map[string]LayoutConfig{
		"empty keys":     {Keys: "", BreakStart: 0, BreakEnd: 0},
		"break reversed": {Keys: "ABC", BreakStart: 2, BreakEnd: 1},
		"break too far":  {Keys: "ABC", BreakStart: 1, BreakEnd: 4},
		"duplicate key":  {Keys: "ABA", BreakStart: 1, BreakEnd: 2},
	}
	for name, lc := range tests {
		t.Run(name, func(t *testing.T) {
			if err := lc.Validate(); err == nil {
				t.Errorf("%+v should fail validation", lc)
			}
		})
	}
}

func TestCompilerConfig_Policy(t *testing.T) {
	cfg := CompilerConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty policy should default: %v", err)
	}
	if cfg.ErrorPolicy != "abort" {
		t.Errorf("policy = %q, want abort", cfg.ErrorPolicy)
	}

	cfg = CompilerConfig{ErrorPolicy: "ignore"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown policy should fail validation")
	}

	cfg = CompilerConfig{ErrorPolicy: "skip"}
	cfg.Limits.MaxDepth = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative limit should fail validation")
	}
}

func TestConfig_OutputInsideSources(t *testing.T) {
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Sources.Path = dir
	cfg.Output.Path = dir + "/build"
	if err := cfg.Validate(); err == nil {
		t.Fatal("output inside sources should fail")
	}

	cfg.Output.Path = dir
	if err := cfg.Validate(); err == nil {
		t.Fatal("output equal to sources should fail")
	}

	cfg.Sources.Path = dir + "/src"
	cfg.Output.Path = dir + "/build"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sibling dirs should pass: %v", err)
	}
}
