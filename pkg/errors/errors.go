// Package errors は実験ハーネス全体で使うエラー型と警告システムを提供します。
// エラーは即座に処理を止めるもの、警告は結果に注記を残して処理を続けるものとして
// 区別され、scikit-learnの警告・例外の設計に倣っています。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// ハンドラ未設定時のフォールバックは標準ログへの出力
		log.Printf("churngrid-warning: %v\n", w)
	}
	// zerolog経由の警告出力（循環importを避けるため関数値で受け取る）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告の処理方法を差し替えます。
// nilを渡すと警告は破棄されます。テストでは警告を捕捉するために使います。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    captured = append(captured, w)
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc は警告をzerologの構造化ログとして出すための関数を登録します。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerolog関数が登録されていればそちらへ、なければ警告ハンドラへ渡します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型（処理は継続する）
//
// ===========================================================================

// ConvergenceWarning は勾配降下が指定イテレーション内に収束しなかった警告です。
// 学習自体はその時点の重みで完了し、スコアは通常どおり集計されます。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject は警告をzerologの構造化フィールドとして書き出します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning はConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// DataConversionWarning はデータの型を暗黙に変換した際の警告です。
// CSVの真偽値セルを0/1へ読み替えた場合などに発生します。
type DataConversionWarning struct {
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("data converted from %s to %s. Reason: %s", w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject は警告をzerologの構造化フィールドとして書き出します。
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning はDataConversionWarningを作成します。
func NewDataConversionWarning(from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{FromType: from, ToType: to, Reason: reason}
}

// UndefinedMetricWarning は評価指標が定義できない条件で発生した警告です。
// 片方のクラスしか含まないデータに対するROC-AUCが典型で、Resultには
// その条件で代わりに返した値が入ります。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning はUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	入力検証のエラー型
//
// ===========================================================================

// ValueError は引数の値そのものが不正な場合のエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("churngrid: %s: %s", e.Op, e.Message)
}

// NewValueError はValueErrorにスタックトレースを付けて返します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ValidationError はパラメータが受け入れ条件を満たさない場合のエラーです。
// どのパラメータが、どの条件に、どの値で反したかまで保持します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("churngrid: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はエラーをzerologの構造化フィールドとして書き出します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError はValidationErrorにスタックトレースを付けて返します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// DimensionError は行列の行数・列数が期待と合わない場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0は行、1は列（特徴量）
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("churngrid: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はエラーをzerologの構造化フィールドとして書き出します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError はDimensionErrorにスタックトレースを付けて返します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// InputShapeError は学習時と推論時で入力の形状が食い違った場合のエラーです。
// 単一軸の不一致を表すDimensionErrorと違い、形状全体を保持します。
type InputShapeError struct {
	Phase    string // "training"、"prediction"、"transform"のいずれか
	Expected []int
	Got      []int
	Feature  string // 特定の特徴量に起因する場合のみ設定
}

func (e *InputShapeError) Error() string {
	expectedStr := fmt.Sprintf("%v", e.Expected)
	gotStr := fmt.Sprintf("%v", e.Got)
	if e.Feature != "" {
		return fmt.Sprintf("churngrid: input shape mismatch in %s phase for feature '%s'. Expected shape %s, got %s",
			e.Phase, e.Feature, expectedStr, gotStr)
	}
	return fmt.Sprintf("churngrid: input shape mismatch in %s phase. Expected shape %s, got %s",
		e.Phase, expectedStr, gotStr)
}

// NewInputShapeError はInputShapeErrorにスタックトレースを付けて返します。
func NewInputShapeError(phase string, expected, got []int) error {
	return errors.WithStack(&InputShapeError{Phase: phase, Expected: expected, Got: got})
}

// ===========================================================================
//
//	モデル状態のエラー型
//
// ===========================================================================

// NotFittedError は未学習のモデルでPredictやTransformを呼んだ場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("churngrid: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はエラーをzerologの構造化フィールドとして書き出します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError はNotFittedErrorにスタックトレースを付けて返します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// ModelError はモデル操作の失敗を操作名と種別で包む汎用エラーです。
// 原因となったエラーがあればErrに保持し、Unwrapで辿れます。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("churngrid: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("churngrid: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError はModelErrorにスタックトレースを付けて返します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// ===========================================================================
//
//	実験設定・交差検証のエラー型
//
// ===========================================================================

// ConfigurationError は実験設定の検証に失敗した場合のエラーです。
// 存在しない列名や不正なフォールド数など、実行前に検出される設定不備を表します。
// このエラーが発生した場合、実験全体が中断されます。
type ConfigurationError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("churngrid: invalid configuration '%s': %s (got: %v)", e.Field, e.Reason, e.Value)
}

// MarshalZerologObject はエラーをzerologの構造化フィールドとして書き出します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError はConfigurationErrorにスタックトレースを付けて返します。
func NewConfigurationError(field, reason string, value interface{}) error {
	return errors.WithStack(&ConfigurationError{Field: field, Reason: reason, Value: value})
}

// DegenerateFoldError は検証フォールドに片方のクラスしか含まれない場合のエラーです。
// ROC-AUCのようなランキング指標は両クラスが揃わないと定義できないため、
// 該当フォールドはそのグリッド点のスコア集計から除外されます（探索自体は継続します）。
type DegenerateFoldError struct {
	Fold  int
	Class float64
}

func (e *DegenerateFoldError) Error() string {
	return fmt.Sprintf("churngrid: fold %d: validation split contains only class %g, ranking score is undefined", e.Fold, e.Class)
}

// MarshalZerologObject はエラーをzerologの構造化フィールドとして書き出します。
func (e *DegenerateFoldError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("fold", e.Fold).
		Float64("class", e.Class).
		Str("type", "DegenerateFoldError")
}

// NewDegenerateFoldError はDegenerateFoldErrorにスタックトレースを付けて返します。
func NewDegenerateFoldError(fold int, class float64) error {
	return errors.WithStack(&DegenerateFoldError{Fold: fold, Class: class})
}

// ===========================================================================
//
//	数値計算のエラー型
//
// ===========================================================================

// NumericalInstabilityError は計算結果にNaNやInfが現れた場合のエラーです。
// 学習率が大きすぎて勾配降下が発散したケースが典型です。
type NumericalInstabilityError struct {
	Operation string                 // 検出元の操作（"gradient_update"など）
	Values    []float64              // 問題の値（メッセージには先頭5件まで表示）
	Context   map[string]interface{} // デバッグ用の追加情報
	Iteration int                    // 検出時のイテレーション番号
}

func (e *NumericalInstabilityError) Error() string {
	var b strings.Builder
	for i, v := range e.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		if i >= 5 {
			b.WriteString("...")
			break
		}
		fmt.Fprintf(&b, "%.6g", v)
	}
	return fmt.Sprintf("churngrid: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, b.String())
}

// NewNumericalInstabilityError はNumericalInstabilityErrorにスタックトレースを付けて返します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	return errors.WithStack(&NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
		Context:   make(map[string]interface{}),
	})
}

// ===========================================================================
//
//	cockroachdb/errors の再エクスポート
//
// ===========================================================================

// Is はerrのチェーンにtargetが含まれるかを報告します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はerrのチェーンからtargetの型のエラーを探して代入します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap はerrに文脈メッセージを重ねます。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf はerrにフォーマット済みの文脈メッセージを重ねます。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New はスタックトレース付きの新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf はスタックトレース付きのフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack は既存のエラーに現在位置のスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrNotImplemented は要求された機能をモデルが提供しない場合のエラーです。
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData は行も列も持たないデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
