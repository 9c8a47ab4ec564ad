package wordgen

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	m := testModel(t, 2, "apple", "apply")

	var buf bytes.Buffer
	if err := m.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	imported, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	origStats, _ := m.Stats()
	importedStats, err := imported.Stats()
	if err != nil {
		t.Fatalf("Stats on imported model failed: %v", err)
	}
	if origStats != importedStats {
		t.Errorf("imported stats = %+v, want %+v", importedStats, origStats)
	}

	origChoices, origTotal := m.NextChars("pl")
	choices, total := imported.NextChars("pl")
	if !reflect.DeepEqual(choices, origChoices) || total != origTotal {
		t.Errorf("imported NextChars('pl') = %v (%d), want %v (%d)", choices, total, origChoices, origTotal)
	}

	if !imported.IsKnownWord("apple") {
		t.Error("expected imported model to know 'apple'")
	}

	// Identical draws against both models must produce identical output.
	want, err := m.Generate(5, &seqSource{vals: []int{0, 0, 0, 0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := imported.Generate(5, &seqSource{vals: []int{0, 0, 0, 0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("imported model generated %q, original %q", got, want)
	}
}

func TestExportPrunedRoundTrip(t *testing.T) {
	m := testModel(t, 2, "apple", "apply")
	if _, err := m.Prune(1); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := m.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	imported, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	// The pruned table must round-trip as-is, not be rebuilt from the words.
	if choices, _ := imported.NextChars("pl"); choices != nil {
		t.Errorf("expected pruned prefix to stay absent after import, got %v", choices)
	}
}

func TestExportUnbuilt(t *testing.T) {
	m, err := NewModel(testCorpus(t, "apple"), 2)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := m.Export(&buf); !errors.Is(err, ErrNoTrainingData) {
		t.Errorf("expected ErrNoTrainingData before Build, got %v", err)
	}
}

func TestImportInvalid(t *testing.T) {
	testCases := []struct {
		name string
		json string
	}{
		{name: "malformed json", json: `{"order": 2,`},
		{name: "order below one", json: `{"order": 0, "words": ["ab"], "transitions": {}}`},
		{name: "prefix width mismatch", json: `{"order": 2, "words": ["ab"], "transitions": {"abc": {"d": 1}}}`},
		{name: "non-positive frequency", json: `{"order": 2, "words": ["ab"], "transitions": {"^^": {"a": 0}}}`},
		{name: "multi-character continuation", json: `{"order": 2, "words": ["ab"], "transitions": {"^^": {"ab": 1}}}`},
		{name: "invalid training word", json: `{"order": 2, "words": ["a1"], "transitions": {}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Import(strings.NewReader(tc.json)); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}
