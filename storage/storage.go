package storage

import (
	"time"

	"Duet/core"
)

const (
	tableName = "user_modes"
	opTimeout = 5 * time.Second
)

// ModeStorage is a durable core.ModeStore. Values read back are passed
// through core.ParseMode, so a record that does not hold a known mode
// reads as core.DefaultMode.
type ModeStorage interface {
	core.ModeStore
	Close() error
}
