package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

const sampleCSV = `account_length,international_plan,total_day_calls,churn
128,no,110,False.
107,yes,123,False.
84,no,88,True.
`

func TestReadCSV(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) {
		warnings = append(warnings, w)
	})
	defer errors.SetWarningHandler(nil)

	table, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	cols := table.Columns()
	want := []string{"account_length", "international_plan", "total_day_calls", "churn"}
	if len(cols) != len(want) {
		t.Fatalf("Columns = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, cols[i], want[i])
		}
	}
	if table.Rows() != 3 {
		t.Errorf("Rows = %d, want 3", table.Rows())
	}

	plan, err := table.Column("international_plan")
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	wantPlan := []float64{0, 1, 0}
	for i, v := range wantPlan {
		if plan[i] != v {
			t.Errorf("international_plan[%d] = %v, want %v", i, plan[i], v)
		}
	}

	churn, _ := table.Column("churn")
	wantChurn := []float64{0, 0, 1}
	for i, v := range wantChurn {
		if churn[i] != v {
			t.Errorf("churn[%d] = %v, want %v", i, churn[i], v)
		}
	}

	// Two boolean columns, one warning each.
	if len(warnings) != 2 {
		t.Fatalf("Got %d conversion warnings, want 2", len(warnings))
	}
	for _, w := range warnings {
		var conv *errors.DataConversionWarning
		if !errors.As(w, &conv) {
			t.Errorf("Expected DataConversionWarning, got %T", w)
		}
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"header only", "a,b,c\n"},
		{"ragged row", "a,b\n1,2\n3\n"},
		{"unparseable cell", "a,b\n1,maybe\n"},
		{"duplicate column names", "a,a\n1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestReadCSVUnparseableCellNamesLocation(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("calls,churn\n12,no\n13,unknown\n"))
	if err == nil {
		t.Fatal("Expected error for unparseable cell")
	}
	msg := err.Error()
	if !strings.Contains(msg, "churn") || !strings.Contains(msg, "row 2") {
		t.Errorf("Error should name the column and row, got: %v", msg)
	}
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "churn.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	table, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile failed: %v", err)
	}
	if table.Rows() != 3 {
		t.Errorf("Rows = %d, want 3", table.Rows())
	}

	if _, err := ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}
