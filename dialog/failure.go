package dialog

import (
	"errors"
	"log/slog"

	"Duet/ai"
)

// failureReason describes a remote failure for logs; other errors yield an
// empty attribute, which slog handlers drop.
func failureReason(err error) slog.Attr {
	var failure *ai.Failure
	if errors.As(err, &failure) {
		return slog.String("reason", failure.Reason())
	}
	return slog.Attr{}
}
