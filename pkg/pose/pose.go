// Package pose はポーズ指示の一覧と、その巡回を扱います。
package pose

import "slices"

// Instructions は既定のポーズ指示です。順序が巡回順になります。
var Instructions = []string{
	"Full frontal view, hands on hips",
	"Slightly turned, 3/4 view",
	"Side profile view",
	"Jumping in the air, mid-action shot",
	"Walking towards camera",
	"Leaning against a wall",
}

// Default は最初に選択されているポーズです。
func Default() string {
	return Instructions[0]
}

// Next は list 上で current の次の指示を返します（末尾の次は先頭）。
// current が一覧にない自由入力の場合は先頭を返します。
func Next(list []string, current string) string {
	if len(list) == 0 {
		return current
	}
	i := slices.Index(list, current)
	if i < 0 {
		return list[0]
	}
	return list[(i+1)%len(list)]
}

// Previous は list 上で current の前の指示を返します（先頭の前は末尾）。
// current が一覧にない自由入力の場合は末尾を返します。
func Previous(list []string, current string) string {
	if len(list) == 0 {
		return current
	}
	i := slices.Index(list, current)
	if i < 0 {
		return list[len(list)-1]
	}
	return list[(i-1+len(list))%len(list)]
}

// State は現在選択中のポーズ指示です。自由入力の場合は位置を持ちません。
type State struct {
	list    []string
	current string
}

// NewState は list の先頭を選択した状態を作ります。list が空なら Instructions を使います。
func NewState(list []string) *State {
	if len(list) == 0 {
		list = Instructions
	}
	return &State{list: list, current: list[0]}
}

// Current は現在の指示を返します。
func (s *State) Current() string { return s.current }

// IsCustom は現在の指示が一覧外の自由入力かどうかを返します。
func (s *State) IsCustom() bool { return !slices.Contains(s.list, s.current) }

// Select は一覧または自由入力の指示を選択します。
func (s *State) Select(instruction string) { s.current = instruction }

// Next は次の指示へ進み、その指示を返します。
func (s *State) Next() string {
	s.current = Next(s.list, s.current)
	return s.current
}

// Previous は前の指示へ戻り、その指示を返します。
func (s *State) Previous() string {
	s.current = Previous(s.list, s.current)
	return s.current
}

// Peek は direction 方向へ進んだ場合の指示を、状態を変えずに返します。
func (s *State) Peek(direction Direction) string {
	if direction == Backward {
		return Previous(s.list, s.current)
	}
	return Next(s.list, s.current)
}

// Direction は巡回の向きです。
type Direction int

const (
	Forward Direction = iota
	Backward
)

// ParseDirection は "next" / "previous" を Direction に変換します。
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "next":
		return Forward, true
	case "previous", "prev":
		return Backward, true
	default:
		return Forward, false
	}
}
