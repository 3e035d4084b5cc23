package entity

type GameActionType string

const (
	ActionFold  GameActionType = "FOLD"
	ActionCheck GameActionType = "CHECK"
	ActionCall  GameActionType = "CALL"
	ActionBet   GameActionType = "BET"
	ActionRaise GameActionType = "RAISE"
	ActionAllIn GameActionType = "ALL_IN"
)

// TurnContext describes the pending decision of the local player.
type TurnContext struct {
	IsMyTurn      bool
	ValidActions  []GameActionType
	AmountToCall  int64
	MinRaise      int64
	TimeRemaining int
}

func (that TurnContext) Allows(action GameActionType) bool {
	for _, valid := range that.ValidActions {
		if valid == action {
			return true
		}
	}

	return false
}

func (that TurnContext) Clone() TurnContext {
	actions := make([]GameActionType, len(that.ValidActions))
	copy(actions, that.ValidActions)
	that.ValidActions = actions

	return that
}
