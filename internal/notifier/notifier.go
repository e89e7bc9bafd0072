package notifier

import (
	"context"

	"openfx/internal/model"
)

// Notifier delivers one alert to one destination.
type Notifier interface {
	Notify(ctx context.Context, a model.Alert) error
	Name() string
}
