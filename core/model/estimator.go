// Package model は推定器、変換器、パイプラインが共有する
// 学習・推論・複製のインターフェースと学習状態の管理を提供する。
package model

import "gonum.org/v1/gonum/mat"

// Fitter は教師あり学習を行う推定器のインターフェース。
// Xは特徴量行列、yはラベルを1列に持つ行列またはベクトル。
type Fitter interface {
	// Fit はXとyからモデルパラメータを推定する
	Fit(X, y mat.Matrix) error
}

// Predictor は学習済みモデルによる推論のインターフェース
type Predictor interface {
	// Predict は各行に対する予測値を行列として返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は交差検証で扱う推定器の最小インターフェース。
// 未学習のまま推論が呼ばれたことをIsFittedで検出できる。
type Estimator interface {
	Fitter

	// IsFitted は一度でもFitが成功したかを返す
	IsFitted() bool
}

// LinearModel は係数と切片を公開する線形推定器のインターフェース。
// 標準化済みの特徴量で学習した場合、係数の絶対値は特徴量の寄与として比較できる。
type LinearModel interface {
	// Weights は特徴量ごとの学習済み係数を返す
	Weights() []float64
	// Intercept は学習済みの切片を返す
	Intercept() float64
}
