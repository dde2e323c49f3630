// scikit-learn互換のパラメータ管理と分類器の拡張契約。
// グリッドサーチはGetParamsとCloneを通じてモデルを複製し、
// 設定だけを引き継いだ学習をフォールドごとに繰り返す。

package model

import (
	"gonum.org/v1/gonum/mat"
)

// SKLearnCompatible はハイパーパラメータの取得・設定と未学習複製を
// まとめたscikit-learn互換インターフェース
type SKLearnCompatible interface {
	// GetParams は現在のハイパーパラメータを返す。
	// deepはネストした推定器を持つ実装のための引数で、平坦なモデルは無視してよい
	GetParams(deep bool) map[string]interface{}

	// SetParams は与えられたハイパーパラメータで設定を上書きする
	SetParams(params map[string]interface{}) error

	// Clone は同じハイパーパラメータを持つ未学習インスタンスを返す
	Clone() SKLearnCompatible
}

// ClassifierMixin は確率、対数確率、決定関数まで公開する分類器の拡張契約
type ClassifierMixin interface {
	Estimator

	// PredictProba は各クラスの所属確率を返す
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// PredictLogProba は各クラスの対数確率を返す
	PredictLogProba(X mat.Matrix) (mat.Matrix, error)

	// DecisionFunction はシグモイド適用前の線形スコアを返す
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)

	// Classes は学習時に観測したクラスラベルを昇順で返す
	Classes() []float64

	// NClasses は観測したクラス数を返す
	NClasses() int
}

// TransformerMixin は学習済み統計量による変換の契約
type TransformerMixin interface {
	// Transform は学習済みの統計量でXを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform は学習と変換をまとめて行う
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformerMixin は変換を元に戻せる変換器の契約。
// スケーラーが該当し、標準化した値を元の単位に戻す用途で使う
type InverseTransformerMixin interface {
	TransformerMixin

	// InverseTransform は変換後の行列を元の空間に戻す
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
