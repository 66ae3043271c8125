package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSlotNotFound is returned when a save slot lookup yields no results.
var ErrSlotNotFound = errors.New("save slot not found")

// SaveSlot is one persisted game in a numbered slot. State holds the
// engine's versioned JSON blob; the remaining fields are metadata shown
// on the slot picker without decoding the blob.
type SaveSlot struct {
	Slot          int
	CharacterName string
	State         []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SlotInfo is the metadata row for one slot, without the state blob.
type SlotInfo struct {
	Slot          int
	CharacterName string
	UpdatedAt     time.Time
}

// SaveSlotRepository provides save-slot persistence operations.
type SaveSlotRepository struct {
	db *pgxpool.Pool
}

// NewSaveSlotRepository creates a SaveSlotRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveSlotRepository(db *pgxpool.Pool) *SaveSlotRepository {
	return &SaveSlotRepository{db: db}
}

// Save upserts the state blob and metadata for the given slot.
//
// Precondition: slot must be >= 0; state must be a valid JSON document.
// Postcondition: A subsequent Load of the slot returns the given state.
func (r *SaveSlotRepository) Save(ctx context.Context, slot int, characterName string, state []byte) error {
	if slot < 0 {
		return fmt.Errorf("saving slot: slot must be >= 0, got %d", slot)
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO save_slots (slot, character_name, state)
		VALUES ($1, $2, $3)
		ON CONFLICT (slot) DO UPDATE
			SET character_name = EXCLUDED.character_name,
			    state = EXCLUDED.state,
			    updated_at = NOW()`,
		slot, characterName, state,
	)
	if err != nil {
		return fmt.Errorf("saving slot %d: %w", slot, err)
	}
	return nil
}

// Load retrieves the full save for a slot.
//
// Postcondition: Returns the SaveSlot or ErrSlotNotFound.
func (r *SaveSlotRepository) Load(ctx context.Context, slot int) (*SaveSlot, error) {
	var s SaveSlot
	err := r.db.QueryRow(ctx, `
		SELECT slot, character_name, state, created_at, updated_at
		FROM save_slots WHERE slot = $1`,
		slot,
	).Scan(&s.Slot, &s.CharacterName, &s.State, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("loading slot %d: %w", slot, err)
	}
	return &s, nil
}

// List returns metadata for every occupied slot, ordered by slot number.
// Slots that were never saved simply do not appear.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveSlotRepository) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slot, character_name, updated_at
		FROM save_slots ORDER BY slot ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	infos := make([]SlotInfo, 0)
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.CharacterName, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning slot row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a slot's save.
//
// Postcondition: Returns nil on success, ErrSlotNotFound if the slot was empty.
func (r *SaveSlotRepository) Delete(ctx context.Context, slot int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM save_slots WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}
