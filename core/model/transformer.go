package model

import "gonum.org/v1/gonum/mat"

// Transformer は特徴量変換のインターフェース。
// スケーラーや多項式特徴量の生成といった前処理ステップが実装する。
type Transformer interface {
	// Fit は変換に必要な統計量をXから学習する
	Fit(X mat.Matrix) error

	// Transform は学習済みの統計量でXを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform は同じ行列に対するFitとTransformをまとめて行う
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// CloneableTransformer は未学習の複製を作れる変換器のインターフェース。
// 交差検証は訓練フォールドごとに変換器を学習し直すため、
// ハイパーパラメータだけを引き継いだ複製を必要とする。
type CloneableTransformer interface {
	Transformer

	// CloneTransformer は同じ設定を持つ未学習の変換器を返す
	CloneTransformer() Transformer
}
