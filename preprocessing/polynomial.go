package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/churngrid/core/model"
	"github.com/YuminosukeSato/churngrid/core/parallel"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// PolynomialFeatures はscikit-learn互換の多項式特徴量生成器
// 入力特徴量から指定した次数までの全ての積の組み合わせを生成する
//
// 列の並び順はscikit-learnと同じ: バイアス項（有効な場合）、1次の項、
// 2次の項、…と辞書式順序で続く
type PolynomialFeatures struct {
	state *model.StateManager

	// Degree は生成する多項式の最大次数
	Degree int

	// InteractionOnly がtrueの場合、同一特徴量の累乗（x^2など）を除外し
	// 異なる特徴量同士の積のみを生成する
	InteractionOnly bool

	// IncludeBias がtrueの場合、先頭に定数1のバイアス列を追加する
	IncludeBias bool

	// NFeaturesIn は入力特徴量の数
	NFeaturesIn int

	// NFeaturesOut は生成される特徴量の数
	NFeaturesOut int

	// combos は出力列ごとの入力添字の組み合わせ（バイアス列を除く）
	combos [][]int
}

var _ model.CloneableTransformer = (*PolynomialFeatures)(nil)

// PolynomialOption はPolynomialFeaturesの設定オプション
type PolynomialOption func(*PolynomialFeatures)

// WithInteractionOnly は同一特徴量の累乗を除外するかどうかを設定する
func WithInteractionOnly(interactionOnly bool) PolynomialOption {
	return func(p *PolynomialFeatures) {
		p.InteractionOnly = interactionOnly
	}
}

// WithIncludeBias はバイアス列を追加するかどうかを設定する
func WithIncludeBias(includeBias bool) PolynomialOption {
	return func(p *PolynomialFeatures) {
		p.IncludeBias = includeBias
	}
}

// NewPolynomialFeatures は新しいPolynomialFeaturesを作成する
//
// パラメータ:
//   - degree: 生成する多項式の最大次数（1以上）
//   - opts: 設定オプション
//
// 使用例:
//
//	poly := preprocessing.NewPolynomialFeatures(2,
//		preprocessing.WithInteractionOnly(true),
//		preprocessing.WithIncludeBias(false))
//	XPoly, err := poly.FitTransform(X)
func NewPolynomialFeatures(degree int, opts ...PolynomialOption) *PolynomialFeatures {
	p := &PolynomialFeatures{
		state:           model.NewStateManager(),
		Degree:          degree,
		InteractionOnly: false,
		IncludeBias:     false,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Fit は入力の特徴量数から出力列の組み合わせを決定する
//
// パラメータ:
//   - X: 訓練データ (n_samples × n_features の行列)
//
// 戻り値:
//   - error: エラーが発生した場合
func (p *PolynomialFeatures) Fit(X mat.Matrix) error {
	if p.Degree < 1 {
		return errors.NewValidationError("degree", "must be at least 1", p.Degree)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PolynomialFeatures.Fit", "empty data", errors.ErrEmptyData)
	}

	p.NFeaturesIn = c
	p.combos = nil

	// 次数1からDegreeまでの添字組み合わせを辞書式順序で列挙する
	for d := 1; d <= p.Degree; d++ {
		p.combos = appendIndexCombos(p.combos, c, d, p.InteractionOnly)
	}

	p.NFeaturesOut = len(p.combos)
	if p.IncludeBias {
		p.NFeaturesOut++
	}

	p.state.SetDimensions(c, r)
	p.state.SetFitted()
	return nil
}

// IsFitted は生成器が学習済みかどうかを返す
func (p *PolynomialFeatures) IsFitted() bool {
	return p.state.IsFitted()
}

// Transform は入力データから多項式特徴量を生成する
//
// パラメータ:
//   - X: 変換するデータ
//
// 戻り値:
//   - mat.Matrix: 多項式特徴量 (n_samples × n_output_features の行列)
//   - error: エラーが発生した場合
func (p *PolynomialFeatures) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "Transform")
	}

	r, c := X.Dims()
	if c != p.NFeaturesIn {
		return nil, errors.NewDimensionError("PolynomialFeatures.Transform", p.NFeaturesIn, c, 1)
	}

	result := mat.NewDense(r, p.NFeaturesOut, nil)

	offset := 0
	if p.IncludeBias {
		offset = 1
	}

	// 行ごとに独立した書き込みなので行範囲で並列化できる
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if p.IncludeBias {
				result.Set(i, 0, 1.0)
			}
			for k, combo := range p.combos {
				prod := 1.0
				for _, j := range combo {
					prod *= X.At(i, j)
				}
				result.Set(i, offset+k, prod)
			}
		}
	})

	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (p *PolynomialFeatures) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// CloneTransformer は同じ設定を持つ未学習のPolynomialFeaturesを返す
func (p *PolynomialFeatures) CloneTransformer() model.Transformer {
	return NewPolynomialFeatures(p.Degree,
		WithInteractionOnly(p.InteractionOnly),
		WithIncludeBias(p.IncludeBias))
}

// GetParams は生成器のパラメータを取得する
func (p *PolynomialFeatures) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"degree":           p.Degree,
		"interaction_only": p.InteractionOnly,
		"include_bias":     p.IncludeBias,
	}
}

// String は生成器の文字列表現を返す
func (p *PolynomialFeatures) String() string {
	if !p.IsFitted() {
		return fmt.Sprintf("PolynomialFeatures(degree=%d, interaction_only=%t, include_bias=%t)",
			p.Degree, p.InteractionOnly, p.IncludeBias)
	}
	return fmt.Sprintf("PolynomialFeatures(degree=%d, interaction_only=%t, include_bias=%t, n_output_features=%d)",
		p.Degree, p.InteractionOnly, p.IncludeBias, p.NFeaturesOut)
}

// appendIndexCombos は次数kの添字組み合わせを辞書式順序でcombosに追加する
// interactionOnlyがtrueの場合は添字の重複（累乗）を許さない
func appendIndexCombos(combos [][]int, n, k int, interactionOnly bool) [][]int {
	idx := make([]int, k)

	var rec func(pos, start int)
	rec = func(pos, start int) {
		if pos == k {
			combo := make([]int, k)
			copy(combo, idx)
			combos = append(combos, combo)
			return
		}
		for j := start; j < n; j++ {
			idx[pos] = j
			if interactionOnly {
				rec(pos+1, j+1)
			} else {
				rec(pos+1, j)
			}
		}
	}
	rec(0, 0)

	return combos
}
