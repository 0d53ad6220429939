package generator

// State 是生成/点评循环的状态。
type State int

const (
	StateGenerating State = iota
	StateCritiquing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generate"
	case StateCritiquing:
		return "reflect"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Next 返回 from 之后的状态。只在生成之后判断是否结束，所以最终结果总是一份草稿。
// 比较的是消息条数而不是轮数：historyLen 等于 maxMessages 时仍会再点评一轮。
func Next(from State, historyLen, maxMessages int) State {
	switch from {
	case StateGenerating:
		if historyLen > maxMessages {
			return StateDone
		}
		return StateCritiquing
	case StateCritiquing:
		return StateGenerating
	default:
		return StateDone
	}
}
