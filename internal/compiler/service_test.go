package compiler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/stenomix/internal/apperr"
	"github.com/starford/stenomix/internal/dictionary"
	"github.com/starford/stenomix/internal/models"
	"github.com/starford/stenomix/internal/sink"
	"github.com/starford/stenomix/internal/testutil"
)

const animals = `{
  "cat": "KAT",
  "dog|m": "TKAOG",
  "[cat,dog] food|e": "[]/TPAOD"
}`

func testService(t *testing.T, files map[string]string) (*Service, string, string) {
	t.Helper()
	srcDir, sources := testutil.TestSources(t, files)
	outDir, output := testutil.TestOutput(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc := NewService(sources, output, db, Options{Sink: sink.Options{SortKeys: true}, Workers: 2}, logger)
	return svc, srcDir, outDir
}

func TestCompile(t *testing.T) {
	res, err := Compile([]models.Entry{
		{Translation: "cat", Strokes: []string{"KAT"}},
		{Translation: "kitty", Strokes: []string{"KAT"}},
	}, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got, _ := res.Dictionary.Get("KAT"); got != "kitty" {
		t.Errorf("KAT = %q, want %q", got, "kitty")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != dictionary.DiagOutputConflict {
		t.Errorf("diagnostics = %+v", res.Diagnostics)
	}
}

func TestExpandDefinition_UsesPolicyAndLimits(t *testing.T) {
	entries := []models.Entry{
		{Translation: "[broken", Strokes: []string{"PWROEBG"}},
		{Translation: "x|m", Strokes: []string{"KA", "KO"}},
	}

	if _, err := ExpandDefinition(entries, "X", Options{}); !errors.Is(err, apperr.ErrParse) {
		t.Fatalf("abort policy: err = %v, want ErrParse", err)
	}

	got, err := ExpandDefinition(entries, "X", Options{Policy: dictionary.PolicySkip})
	if err != nil {
		t.Fatalf("skip policy: %v", err)
	}
	if strings.Join(got, " ") != "KA KO" {
		t.Errorf("expand = %v, want [KA KO]", got)
	}

	limits := dictionary.DefaultLimits()
	limits.MaxExpansions = 1
	_, err = ExpandDefinition(entries, "X", Options{Policy: dictionary.PolicySkip, Limits: limits})
	if !errors.Is(err, apperr.ErrLimit) {
		t.Errorf("limited: err = %v, want ErrLimit", err)
	}
}

func TestCompile_NoDiagnosticsIsEmptySlice(t *testing.T) {
	res, err := Compile(nil, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Diagnostics == nil {
		t.Error("diagnostics should be non-nil")
	}
	if res.Dictionary.Len() != 0 {
		t.Errorf("len = %d, want 0", res.Dictionary.Len())
	}
}

func TestCompileDocument_YAML(t *testing.T) {
	res, err := CompileDocument("d.yaml", []byte("cat: KAT\ndog: [TKOG, TKAOG]\n"), Options{})
	if err != nil {
		t.Fatalf("CompileDocument: %v", err)
	}
	got := res.Entries("d.yaml")
	want := []models.CompiledEntry{
		{Source: "d.yaml", Strokes: "KAT", Translation: "cat"},
		{Source: "d.yaml", Strokes: "TKOG", Translation: "dog"},
		{Source: "d.yaml", Strokes: "TKAOG", Translation: "dog"},
	}
	if len(got) != len(want) {
		t.Fatalf("entries = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCompileDocument_AbortPolicy(t *testing.T) {
	_, err := CompileDocument("bad.json", []byte(`{"x": "[KAT"}`), Options{Policy: dictionary.PolicyAbort})
	if !errors.Is(err, apperr.ErrParse) {
		t.Errorf("err = %v, want ErrParse", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"main.json":      "main.json",
		"sub/extra.yaml": "sub/extra.json",
		"x.yml":          "x.json",
	}
	for in, want := range tests {
		if got := OutputPath(in); got != want {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompileAll(t *testing.T) {
	svc, _, outDir := testService(t, map[string]string{
		"animals.json":  animals,
		"extra/en.yaml": "hello: HEL\n",
		"broken.json":   `{"oops": "[KAT"}`,
		"readme.txt":    "not a source",
	})
	ctx := context.Background()

	rep, err := svc.CompileAll(ctx, false)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if strings.Join(rep.Compiled, ",") != "animals.json,extra/en.yaml" {
		t.Errorf("compiled = %v", rep.Compiled)
	}
	if _, ok := rep.Failed["broken.json"]; !ok {
		t.Errorf("failed = %v, want broken.json", rep.Failed)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "animals.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "{\n\"KAT\": \"cat\",\n\"KAT/TPAOD\": \"cat food\",\n\"TKAOG/TPAOD\": \"dog food\"\n}\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
	if _, err := os.Stat(filepath.Join(outDir, "extra", "en.json")); err != nil {
		t.Errorf("yaml output missing: %v", err)
	}

	hits, err := svc.Lookup(ctx, "KAT/TPAOD")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(hits) != 1 || hits[0].Translation != "cat food" || hits[0].Source != "animals.json" {
		t.Errorf("hits = %+v", hits)
	}

	// A second run has nothing to do.
	rep, err = svc.CompileAll(ctx, false)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(rep.Compiled) != 0 || len(rep.Removed) != 0 {
		t.Errorf("second run = %+v, want no work", rep)
	}
	if _, ok := rep.Failed["broken.json"]; !ok {
		t.Error("broken source should still fail")
	}

	rep, err = svc.CompileAll(ctx, true)
	if err != nil {
		t.Fatalf("CompileAll(force): %v", err)
	}
	if len(rep.Compiled) != 2 {
		t.Errorf("forced run compiled %v, want 2", rep.Compiled)
	}
}

func TestCompileAll_RemovesDeletedSources(t *testing.T) {
	svc, srcDir, outDir := testService(t, map[string]string{"gone.json": `{"gone": "TKPWOPB"}`})
	ctx := context.Background()

	if _, err := svc.CompileAll(ctx, false); err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	_ = os.Remove(filepath.Join(srcDir, "gone.json"))

	rep, err := svc.CompileAll(ctx, false)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(rep.Removed) != 1 || rep.Removed[0] != "gone.json" {
		t.Errorf("removed = %v", rep.Removed)
	}
	if _, err := os.Stat(filepath.Join(outDir, "gone.json")); !os.IsNotExist(err) {
		t.Error("compiled output should be deleted")
	}
	sources, _ := svc.ListSources(ctx)
	if len(sources) != 0 {
		t.Errorf("sources = %+v", sources)
	}
}

func TestIndexSource_SkipsUnchanged(t *testing.T) {
	svc, _, outDir := testService(t, nil)
	data := []byte(`{"cat": "KAT"}`)

	if err := svc.IndexSource("a.json", data); err != nil {
		t.Fatalf("IndexSource: %v", err)
	}
	out := filepath.Join(outDir, "a.json")
	_ = os.Remove(out)

	if err := svc.IndexSource("a.json", data); err != nil {
		t.Fatalf("IndexSource: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("unchanged source should not be recompiled")
	}

	if err := svc.IndexSource("a.json", []byte(`{"cats": "KATS"}`)); err != nil {
		t.Fatalf("IndexSource: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("changed source should be recompiled: %v", err)
	}
}

func TestLookup_NormalizesStrokes(t *testing.T) {
	svc, _, _ := testService(t, nil)
	if err := svc.IndexSource("t.json", []byte(`{"it": "T"}`)); err != nil {
		t.Fatalf("IndexSource: %v", err)
	}
	hits, err := svc.Lookup(context.Background(), "T")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(hits) != 1 || hits[0].Strokes != "T-" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestReadOutput(t *testing.T) {
	svc, _, _ := testService(t, nil)
	ctx := context.Background()

	if _, err := svc.ReadOutput(ctx, "missing.json"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	_ = svc.IndexSource("d.yaml", []byte("cat: KAT\n"))
	data, err := svc.ReadOutput(ctx, "d.yaml")
	if err != nil {
		t.Fatalf("ReadOutput: %v", err)
	}
	if string(data) != "{\n\"KAT\": \"cat\"\n}\n" {
		t.Errorf("output = %q", data)
	}
}
