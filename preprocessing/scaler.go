package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/churngrid/core/model"
	"github.com/YuminosukeSato/churngrid/core/parallel"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Transform系の処理はこの行数を超えると行範囲で並列化される。
const parallelThreshold = 1000

// applyByRow は X の各要素を fn に通した結果で新しい行列を埋める。
// 行ごとに独立した書き込みになるため、行範囲で分割して並列実行できる。
func applyByRow(X mat.Matrix, fn func(j int, v float64) float64) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				out.Set(i, j, fn(j, X.At(i, j)))
			}
		}
	})
	return out
}

// StandardScaler は各特徴量を平均0・標準偏差1へ揃える変換器。
// Fitで列ごとの統計量を記録し、Transformで学習時の統計量を適用する。
type StandardScaler struct {
	state *model.StateManager

	// Mean は学習データの列平均。WithMeanがfalseの場合は全要素0のまま
	Mean []float64

	// Scale は割り算に使う列標準偏差。分散がほぼ0の列は1に差し替えられる
	Scale []float64

	// NFeatures は学習時の特徴量数
	NFeatures int

	// WithMean は変換時に平均を引くかどうか
	WithMean bool

	// WithStd は変換時に標準偏差で割るかどうか
	WithStd bool
}

var (
	_ model.CloneableTransformer    = (*StandardScaler)(nil)
	_ model.InverseTransformerMixin = (*StandardScaler)(nil)
)

// NewStandardScaler は中心化とスケーリングを個別に指定してStandardScalerを作る。
// 両方trueが通常の標準化で、NewStandardScalerDefaultがその省略形になる。
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault は平均0・標準偏差1へ変換するStandardScalerを作る。
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は列ごとの平均と標準偏差を学習データから求める。
// 標準偏差はWithMeanの設定に関わらず列平均まわりの母標準偏差として計算し、
// 使わない側の係数は恒等変換(平均0、スケール1)に固定する。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		if s.WithMean {
			s.Mean[j] = stat.Mean(col, nil)
		}
		if s.WithStd {
			sd := stat.PopStdDev(col, nil)
			if sd < 1e-8 {
				// 定数列は割らずにそのまま通す
				sd = 1.0
			}
			s.Scale[j] = sd
		} else {
			s.Scale[j] = 1.0
		}
	}

	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// IsFitted は Fit 済みかどうかを返す。
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// checkReady は変換前の共通検証。未学習と特徴量数の不一致を弾く。
func (s *StandardScaler) checkReady(op string, X mat.Matrix) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError("StandardScaler", op)
	}
	if _, c := X.Dims(); c != s.NFeatures {
		return errors.NewDimensionError("StandardScaler."+op, s.NFeatures, c, 1)
	}
	return nil
}

// Transform は学習済みの統計量で X を標準化した新しい行列を返す。
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.checkReady("Transform", X); err != nil {
		return nil, err
	}
	return applyByRow(X, func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}), nil
}

// FitTransform は Fit と Transform を続けて実行する。
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化済みの値を元の単位に戻す。
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.checkReady("InverseTransform", X); err != nil {
		return nil, err
	}
	return applyByRow(X, func(j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}), nil
}

// CloneTransformer は同じオプションを持つ未学習のコピーを返す。
func (s *StandardScaler) CloneTransformer() model.Transformer {
	return NewStandardScaler(s.WithMean, s.WithStd)
}

// GetParams はハイパーパラメータをscikit-learn互換のキー名で返す。
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String は設定と学習状態を含む表現を返す。
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler は各特徴量を指定した範囲(既定では[0,1])へ線形に写す変換器。
// 学習データの列ごとの最小値・最大値を基準に係数を決める。
type MinMaxScaler struct {
	state *model.StateManager

	// DataMin は学習データの列最小値
	DataMin []float64

	// DataMax は学習データの列最大値
	DataMax []float64

	// Scale は変換で掛ける係数 (範囲の幅をデータの幅で割ったもの)
	Scale []float64

	// Min は変換で加えるオフセット
	Min []float64

	// NFeatures は学習時の特徴量数
	NFeatures int

	// FeatureRange は変換後に収める範囲 [下限, 上限]
	FeatureRange [2]float64
}

var (
	_ model.CloneableTransformer    = (*MinMaxScaler)(nil)
	_ model.InverseTransformerMixin = (*MinMaxScaler)(nil)
)

// NewMinMaxScaler は変換後の範囲を指定してMinMaxScalerを作る。
//
// 使用例:
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{-1.0, 1.0})
//	XScaled, err := scaler.FitTransform(X)
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		state:        model.NewStateManager(),
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault は[0,1]へスケーリングするMinMaxScalerを作る。
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// Fit は列ごとの最小値・最大値から変換係数を求める。
// 定数列はデータ幅を1とみなすため、変換後は全ての値が範囲の下限に写る。
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return errors.NewValueError("MinMaxScaler.Fit", "feature_range min must be smaller than max")
	}

	m.NFeatures = c
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)
	m.Min = make([]float64, c)

	span := m.FeatureRange[1] - m.FeatureRange[0]
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		lo, hi := floats.Min(col), floats.Max(col)
		m.DataMin[j] = lo
		m.DataMax[j] = hi

		dataRange := hi - lo
		if dataRange < 1e-8 {
			dataRange = 1.0
		}
		m.Scale[j] = span / dataRange
		m.Min[j] = m.FeatureRange[0] - lo*m.Scale[j]
	}

	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

// IsFitted は Fit 済みかどうかを返す。
func (m *MinMaxScaler) IsFitted() bool {
	return m.state.IsFitted()
}

// checkReady は変換前の共通検証。未学習と特徴量数の不一致を弾く。
func (m *MinMaxScaler) checkReady(op string, X mat.Matrix) error {
	if !m.IsFitted() {
		return errors.NewNotFittedError("MinMaxScaler", op)
	}
	if _, c := X.Dims(); c != m.NFeatures {
		return errors.NewDimensionError("MinMaxScaler."+op, m.NFeatures, c, 1)
	}
	return nil
}

// Transform は学習時の範囲に基づいて X をスケーリングした新しい行列を返す。
// 学習データの範囲外の値は範囲外の結果になる(クリップはしない)。
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.checkReady("Transform", X); err != nil {
		return nil, err
	}
	return applyByRow(X, func(j int, v float64) float64 {
		return v*m.Scale[j] + m.Min[j]
	}), nil
}

// FitTransform は Fit と Transform を続けて実行する。
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリング済みの値を元の尺度に戻す。
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.checkReady("InverseTransform", X); err != nil {
		return nil, err
	}
	return applyByRow(X, func(j int, v float64) float64 {
		return (v - m.Min[j]) / m.Scale[j]
	}), nil
}

// CloneTransformer は同じ範囲設定を持つ未学習のコピーを返す。
func (m *MinMaxScaler) CloneTransformer() model.Transformer {
	return NewMinMaxScaler(m.FeatureRange)
}

// GetParams はハイパーパラメータをscikit-learn互換のキー名で返す。
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

// String は設定と学習状態を含む表現を返す。
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}
