// internal/game/rules.go
package game

import (
	"github.com/unonche/unonche/internal/models"
)

// IsPlayable decides whether a candidate card may legally be played on the
// given discard top. effectiveColor is the color a wild top card resolved
// to. The function is pure: it reads only its arguments and is reused to
// validate wild previews before a color is chosen.
//
// Rules, in order:
//  1. An empty discard pile accepts anything.
//  2. draw_four is only legal when the hand holds no non-wild card matching
//     the color in play (no stacking against a bluff-checkable draw four).
//  3. Any other wild-family card is always legal.
//  4. Matching color or matching value is legal.
//  5. On a wild top card, matching the effective color is legal.
func IsPlayable(player *models.Player, card *models.Card, discardTop *models.Card, effectiveColor string) bool {
	if discardTop == nil {
		return true
	}

	if card.Value == models.ValueDrawFour {
		colorInPlay := discardTop.Color
		if discardTop.IsWild() {
			colorInPlay = effectiveColor
		}
		for _, c := range player.Hand {
			if !c.IsWild() && c.Color == colorInPlay {
				return false
			}
		}
		return true
	}

	if card.IsWild() {
		return true
	}

	if card.Color == discardTop.Color || card.Value == discardTop.Value {
		return true
	}

	if discardTop.IsWild() && card.Color == effectiveColor {
		return true
	}

	return false
}

// discardTop returns the top of the discard pile or nil. Assumes lock held.
func (r *Room) discardTop() *models.Card {
	if len(r.DiscardPile) == 0 {
		return nil
	}
	return r.DiscardPile[len(r.DiscardPile)-1]
}
