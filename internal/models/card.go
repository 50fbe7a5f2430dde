// internal/models/card.go
package models

// Card colors. ColorWild is the color carried by the wild family
// (wild, draw_four, poc, sleep, luck).
const (
	ColorRed    = "red"
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorBlue   = "blue"
	ColorWild   = "wild"
)

// Card values beyond the digits 0-9.
const (
	ValueSkip     = "skip"
	ValueReverse  = "reverse"
	ValueDrawTwo  = "draw_two"
	ValueWild     = "wild"
	ValueDrawFour = "draw_four"
	ValuePoc      = "poc"
	ValueSleep    = "sleep"
	ValueLuck     = "luck"
)

// BaseColors are the four playable colors a wild card can resolve to.
var BaseColors = []string{ColorRed, ColorYellow, ColorGreen, ColorBlue}

// IsBaseColor reports whether s is one of the four base colors.
func IsBaseColor(s string) bool {
	for _, c := range BaseColors {
		if s == c {
			return true
		}
	}
	return false
}

// Card is a value object identified deterministically by its color and value.
// Two decks' "red_7" cards are interchangeable.
type Card struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Value string `json:"value"`
}

// NewCard builds a card whose ID derives from (color, value).
func NewCard(color, value string) *Card {
	return &Card{ID: color + "_" + value, Color: color, Value: value}
}

// IsWild reports whether the card belongs to the wild family.
func (c *Card) IsWild() bool {
	return c.Color == ColorWild
}

// Clone returns a copy so the hand's card cannot be mutated through the
// discard pile or an outbound event.
func (c *Card) Clone() *Card {
	cp := *c
	return &cp
}
