// Package mqtt defines the publisher used to emit collected records to a
// message broker.
package mqtt

import (
	"context"
	"errors"

	"github.com/kilianp07/gridfeed/core/model"
)

// ErrNotConnected is returned when publishing on a closed publisher.
var ErrNotConnected = errors.New("mqtt publisher not connected")

// Publisher emits records of one kind. Each record becomes one message.
type Publisher interface {
	Publish(ctx context.Context, kind model.Kind, recs []model.Record) error
	Close()
}
