package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})

	scaler := NewStandardScalerDefault()
	result, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	// 各列が平均0、標準偏差1になっていることを確認する
	r, c := result.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("FitTransform() dims = (%d, %d), want (3, 2)", r, c)
	}

	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += result.At(i, j)
		}
		mean := sum / float64(r)
		if math.Abs(mean) > 1e-9 {
			t.Errorf("column %d: mean = %v, want 0", j, mean)
		}

		var sumSquares float64
		for i := 0; i < r; i++ {
			diff := result.At(i, j) - mean
			sumSquares += diff * diff
		}
		std := math.Sqrt(sumSquares / float64(r))
		if math.Abs(std-1.0) > 1e-9 {
			t.Errorf("column %d: std = %v, want 1", j, std)
		}
	}

	// 期待される標準化の値
	want := 2.0 / math.Sqrt(8.0/3.0)
	if math.Abs(result.At(2, 0)-want) > 1e-9 {
		t.Errorf("At(2, 0) = %v, want %v", result.At(2, 0), want)
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	// 分散0の列はスケール1として扱われる
	X := mat.NewDense(3, 2, []float64{
		5, 1,
		5, 2,
		5, 3,
	})

	scaler := NewStandardScalerDefault()
	result, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	if scaler.Scale[0] != 1.0 {
		t.Errorf("Scale[0] = %v, want 1.0", scaler.Scale[0])
	}

	for i := 0; i < 3; i++ {
		if math.Abs(result.At(i, 0)) > 1e-9 {
			t.Errorf("At(%d, 0) = %v, want 0", i, result.At(i, 0))
		}
	}
}

func TestStandardScalerOptions(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})

	tests := []struct {
		name     string
		withMean bool
		withStd  bool
		want     []float64
	}{
		{
			name:     "Mean only",
			withMean: true,
			withStd:  false,
			want:     []float64{-1, 1},
		},
		{
			name:     "Std only",
			withMean: false,
			withStd:  true,
			want:     []float64{2, 4},
		},
		{
			name:     "Identity",
			withMean: false,
			withStd:  false,
			want:     []float64{2, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scaler := NewStandardScaler(tt.withMean, tt.withStd)
			result, err := scaler.FitTransform(X)
			if err != nil {
				t.Fatalf("FitTransform() unexpected error: %v", err)
			}

			for i, want := range tt.want {
				if math.Abs(result.At(i, 0)-want) > 1e-9 {
					t.Errorf("At(%d, 0) = %v, want %v", i, result.At(i, 0), want)
				}
			}
		})
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := scaler.Transform(X)
	if err == nil {
		t.Fatal("Transform() before Fit should return an error")
	}

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("Expected NotFittedError, got %T", err)
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	XBad := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	if _, err := scaler.Transform(XBad); err == nil {
		t.Error("Transform() with mismatched features should return an error")
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	restored, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform() unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(restored.At(i, j)-X.At(i, j)) > 1e-9 {
				t.Errorf("At(%d, %d) = %v, want %v", i, j, restored.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScalerCloneTransformer(t *testing.T) {
	scaler := NewStandardScaler(true, false)
	X := mat.NewDense(2, 1, []float64{1, 3})
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	clone := scaler.CloneTransformer()
	cloned, ok := clone.(*StandardScaler)
	if !ok {
		t.Fatalf("CloneTransformer() returned %T, want *StandardScaler", clone)
	}

	if cloned.IsFitted() {
		t.Error("Cloned scaler should not be fitted")
	}
	if cloned.WithMean != scaler.WithMean || cloned.WithStd != scaler.WithStd {
		t.Error("Cloned scaler should keep the original options")
	}
}

func TestStandardScalerLargeMatrix(t *testing.T) {
	// 行数が並列化閾値を超えるケース
	const rows, cols = 1500, 3
	data := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = float64((i*31+j*17)%97) / 9.7
		}
	}
	X := mat.NewDense(rows, cols, data)

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += scaled.At(i, j)
		}
		mean := sum / float64(rows)
		if math.Abs(mean) > 1e-9 {
			t.Errorf("column %d: mean = %v, want 0", j, mean)
		}

		var sumSquares float64
		for i := 0; i < rows; i++ {
			sumSquares += scaled.At(i, j) * scaled.At(i, j)
		}
		std := math.Sqrt(sumSquares / float64(rows))
		if math.Abs(std-1.0) > 1e-9 {
			t.Errorf("column %d: std = %v, want 1", j, std)
		}
	}

	restored, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform() unexpected error: %v", err)
	}
	for _, i := range []int{0, rows / 2, rows - 1} {
		for j := 0; j < cols; j++ {
			if math.Abs(restored.At(i, j)-X.At(i, j)) > 1e-9 {
				t.Errorf("restored At(%d, %d) = %v, want %v", i, j, restored.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 100,
		2, 200,
		3, 300,
	})

	scaler := NewMinMaxScalerDefault()
	result, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	// 各列の最小が0、最大が1になる
	wants := [][]float64{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
	}
	for i, row := range wants {
		for j, want := range row {
			if math.Abs(result.At(i, j)-want) > 1e-9 {
				t.Errorf("At(%d, %d) = %v, want %v", i, j, result.At(i, j), want)
			}
		}
	}

	restored, err := scaler.InverseTransform(result)
	if err != nil {
		t.Fatalf("InverseTransform() unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(restored.At(i, j)-X.At(i, j)) > 1e-9 {
				t.Errorf("restored At(%d, %d) = %v, want %v", i, j, restored.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestMinMaxScalerBadRange(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})

	scaler := NewMinMaxScaler([2]float64{1, 1})
	err := scaler.Fit(X)
	if err == nil {
		t.Fatal("Fit() with an empty feature_range should return an error")
	}

	var valueErr *errors.ValueError
	if !errors.As(err, &valueErr) {
		t.Errorf("Expected ValueError, got %T", err)
	}
}

func TestMinMaxScalerCustomRange(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 10})

	scaler := NewMinMaxScaler([2]float64{-1, 1})
	result, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	if math.Abs(result.At(0, 0)-(-1)) > 1e-9 {
		t.Errorf("At(0, 0) = %v, want -1", result.At(0, 0))
	}
	if math.Abs(result.At(1, 0)-1) > 1e-9 {
		t.Errorf("At(1, 0) = %v, want 1", result.At(1, 0))
	}
}
