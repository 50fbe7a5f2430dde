// internal/database/rounds.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unonche/unonche/internal/models"
)

// RecordRoundResult persists the outcome of a completed round: one row for
// the round itself and one per seated player with their final hand size.
// No-op when no database is configured.
func RecordRoundResult(ctx context.Context, roomID string, winnerID uuid.UUID, players []*models.Player) error {
	if DB == nil {
		return nil
	}

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var roundID uuid.UUID
		insertRound := `
			INSERT INTO rounds (room_id, winner_id, player_count)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		if err := tx.QueryRow(ctx, insertRound, roomID, winnerID, len(players)).Scan(&roundID); err != nil {
			return err
		}

		insertPlayer := `
			INSERT INTO round_players (round_id, player_id, name, hand_size, spectator, did_win)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, p := range players {
			didWin := p.ID == winnerID
			if _, err := tx.Exec(ctx, insertPlayer, roundID, p.ID, p.Name, len(p.Hand), p.Spectator, didWin); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record round result: %w", err)
	}
	return nil
}
