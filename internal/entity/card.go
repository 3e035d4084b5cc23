package entity

// Card is an opaque rank+suit code such as "AS" or "TD".
type Card string

func CloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}

	out := make([]Card, len(cards))
	copy(out, cards)

	return out
}
