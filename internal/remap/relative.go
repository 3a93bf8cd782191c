package remap

import (
	"math"

	"github.com/holoplot/go-evdev"

	"github.com/char5742/deck-remap/internal/axis"
)

// AxisHistory は各軸で最後に採用した生の値を保持する
type AxisHistory [axis.Count]int32

// relativeSurface はトラックパッド軸を相対軸に変換する設定
type relativeSurface struct {
	rel   evdev.EvCode
	scale float64
}

// 左トラックパッドはスクロール、右トラックパッドはマウスカーソル
var relativeSurfaces = map[axis.Axis]relativeSurface{
	axis.LeftTrackpadX:  {rel: evdev.REL_HWHEEL, scale: 0.0001},
	axis.LeftTrackpadY:  {rel: evdev.REL_WHEEL, scale: 0.0001},
	axis.RightTrackpadX: {rel: evdev.REL_X, scale: 0.005},
	axis.RightTrackpadY: {rel: evdev.REL_Y, scale: -0.005},
}

// AbsToRel は絶対座標の新しい値から相対移動量を求める。
//
// 値が0（指が離れている）または直前の値が0（最初のサンプル）の場合は履歴だけ更新して
// ok=false を返す。丸めた移動量が0の場合は履歴を更新せず、小さな移動を次のサンプルまで
// 溜めておく。
func (h *AxisHistory) AbsToRel(a axis.Axis, value int32, scale float64) (delta int32, ok bool) {
	previous := h[a]

	if value == 0 || previous == 0 {
		h[a] = value
		return 0, false
	}

	delta = int32(math.Round(float64(value-previous) * scale))
	if delta == 0 {
		return 0, false
	}

	h[a] = value
	return delta, true
}
