package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantbed/lobwin/pkg/model"
)

// matrixText renders a benchmark-shaped matrix as whitespace-delimited
// text: feature row r column i holds base+r*1000+i, labels cycle 1..3.
func matrixText(n int, base float64) string {
	var b strings.Builder
	for r := 0; r < model.FeatureRows; r++ {
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%g", base+float64(r*1000+i))
		}
		b.WriteByte('\n')
	}
	for r := model.FeatureRows; r < model.TotalRows; r++ {
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", i%3+1)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeSplitFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadMatrix(t *testing.T) {
	raw, err := ReadMatrix(strings.NewReader(matrixText(4, 0)))
	if err != nil {
		t.Fatalf("ReadMatrix error: %v", err)
	}
	if raw.Rows() != model.TotalRows || raw.Cols() != 4 {
		t.Fatalf("shape (%d, %d), want (%d, 4)", raw.Rows(), raw.Cols(), model.TotalRows)
	}
	if raw.At(2, 3) != 2003 {
		t.Fatalf("At(2,3)=%v, want 2003", raw.At(2, 3))
	}
	// Label rows sit below the feature block.
	if raw.At(model.FeatureRows, 1) != 2 {
		t.Fatalf("first label row col 1 = %v, want 2", raw.At(model.FeatureRows, 1))
	}
}

func TestReadMatrix_SkipsBlankLines(t *testing.T) {
	text := strings.Replace(matrixText(3, 0), "\n", "\n\n", 5)
	raw, err := ReadMatrix(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadMatrix error: %v", err)
	}
	if raw.Rows() != model.TotalRows {
		t.Fatalf("Rows()=%d", raw.Rows())
	}
}

func TestReadMatrix_RaggedRow(t *testing.T) {
	text := "1 2 3\n4 5\n"
	if _, err := ReadMatrix(strings.NewReader(text)); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestReadMatrix_NonNumeric(t *testing.T) {
	text := "1 2\n3 x\n"
	if _, err := ReadMatrix(strings.NewReader(text)); err == nil {
		t.Fatal("expected error for non-numeric cell")
	}
}

func TestReadMatrix_WrongRowCount(t *testing.T) {
	text := "1 2\n3 4\n"
	_, err := ReadMatrix(strings.NewReader(text))
	var se *model.ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("error %v, want *ShapeError", err)
	}
	if se.GotRows != 2 {
		t.Fatalf("GotRows=%d, want 2", se.GotRows)
	}
}

func TestLoadFiles_Concatenation(t *testing.T) {
	p1 := writeSplitFile(t, "day1.txt", matrixText(3, 0))
	p2 := writeSplitFile(t, "day2.txt", matrixText(2, 0.5))

	raw, err := LoadFiles(p1, p2)
	if err != nil {
		t.Fatalf("LoadFiles error: %v", err)
	}
	if raw.Cols() != 5 {
		t.Fatalf("Cols()=%d, want 5", raw.Cols())
	}
	// Columns 0-2 come from day1, columns 3-4 from day2.
	if raw.At(0, 2) != 2 {
		t.Fatalf("At(0,2)=%v, want 2", raw.At(0, 2))
	}
	if raw.At(0, 3) != 0.5 {
		t.Fatalf("At(0,3)=%v, want 0.5", raw.At(0, 3))
	}
}

func TestLoadFiles_Missing(t *testing.T) {
	if _, err := LoadFiles(); err == nil {
		t.Fatal("expected error for empty path list")
	}
	if _, err := LoadFiles(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// Building windows over two concatenated day files yields the same leading
// N1-T+1 windows as building over the first file alone. Windows past that
// point span the seam and mix two files' series; the benchmark's test
// split has that property by construction and it is not papered over.
func TestSeamContinuity(t *testing.T) {
	const windowLength = 3
	p1 := writeSplitFile(t, "day1.txt", matrixText(6, 0))
	p2 := writeSplitFile(t, "day2.txt", matrixText(4, 7))

	first, err := LoadFile(p1)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	both, err := LoadFiles(p1, p2)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}

	dsFirst := buildFromRaw(t, first, windowLength)
	dsBoth := buildFromRaw(t, both, windowLength)

	n1 := first.Cols()
	wantLeading := n1 - windowLength + 1
	if dsFirst.Len() != wantLeading {
		t.Fatalf("first split gave %d windows, want %d", dsFirst.Len(), wantLeading)
	}
	if dsBoth.Len() != both.Cols()-windowLength+1 {
		t.Fatalf("concatenated split gave %d windows", dsBoth.Len())
	}

	for j := 0; j < wantLeading; j++ {
		a, b := dsFirst.Pairs[j], dsBoth.Pairs[j]
		if a.Label != b.Label {
			t.Fatalf("window %d label differs across concatenation", j)
		}
		for s := range a.Window {
			for k := range a.Window[s] {
				if a.Window[s][k] != b.Window[s][k] {
					t.Fatalf("window %d differs across concatenation at (%d, %d)", j, s, k)
				}
			}
		}
	}

	// The first seam-spanning window mixes both files.
	seam := dsBoth.Pairs[wantLeading]
	if seam.Window[0][0] != float64(wantLeading) {
		t.Fatalf("seam window starts at %v", seam.Window[0][0])
	}
	if seam.Window[windowLength-1][0] != 7 {
		t.Fatalf("seam window should end inside the second file, got %v", seam.Window[windowLength-1][0])
	}
}

func buildFromRaw(t *testing.T, raw *model.RawMatrix, windowLength int) *Dataset {
	t.Helper()
	features, err := ExtractFeatures(raw)
	if err != nil {
		t.Fatalf("ExtractFeatures: %v", err)
	}
	labels, err := ExtractLabels(raw)
	if err != nil {
		t.Fatalf("ExtractLabels: %v", err)
	}
	ds, err := BuildWindows(features, labels, 0, windowLength)
	if err != nil {
		t.Fatalf("BuildWindows: %v", err)
	}
	return ds
}
