package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		States:   []dynamo.State{{0.0, 0.0}, {0.25, 1.5}},
		Controls: []dynamo.Control{{1.0}, {1.0}},
		Times:    []float64{0.0, 1.0 / 60},
		Metrics:  map[string]float64{"overshoot": 0.125},
	}
}

func sampleMeta() RunMetadata {
	return RunMetadata{
		AngularFrequency: 6,
		DampingRatio:     0.5,
		Regime:           "under-damped",
		Dt:               1.0 / 60,
		Duration:         1,
		Integrator:       "analytic",
		Target:           "constant",
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleMeta(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Regime != "under-damped" || meta.DampingRatio != 0.5 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["overshoot"] != 0.125 {
		t.Errorf("expected overshoot 0.125, got %f", meta.Metrics["overshoot"])
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(tr.Times) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tr.Times))
	}
	if tr.Times[1] != 1.0/60 || tr.Positions[1] != 0.25 || tr.Velocities[1] != 1.5 || tr.Targets[1] != 1.0 {
		t.Errorf("trace did not round trip exactly: %+v", tr)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(sampleMeta(), sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("missing dir should list nothing, got %v %v", runs, err)
	}
}

func TestSaveRejectsShortState(t *testing.T) {
	st := New(t.TempDir())
	result := sampleResult()
	result.States[1] = dynamo.State{1}

	if _, err := st.Save(sampleMeta(), result); err == nil {
		t.Error("expected error for 1-entry state")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(sampleMeta(), sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	meta, _ := st.Load(runID)
	tr, _ := st.LoadTrace(runID)

	path := filepath.Join(t.TempDir(), "export.json")
	if err := ExportJSON(path, meta, tr); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Steps != 2 || data.Run.ID != runID || data.Positions[1] != 0.25 {
		t.Errorf("unexpected export %+v", data)
	}
}
