// Package notification delivers vendor lifecycle changes to the outside
// world: email to the vendor over SES, an event on an SNS topic, and a log
// line. Delivery happens after the status change commits.
package notification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/modules/vendor"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/metrics"
)

// Channel is one named delivery path.
type Channel struct {
	Name     string
	Notifier vendor.Notifier
}

// Multi fans a status change out to every channel. A failing channel does
// not stop the others; all failures are returned joined.
type Multi struct {
	channels []Channel
}

func NewMulti(channels ...Channel) *Multi {
	return &Multi{channels: channels}
}

func (m *Multi) NotifyStatusChange(ctx context.Context, v *vendor.Vendor, e *vendor.StatusEvent) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.Notifier.NotifyStatusChange(ctx, v, e); err != nil {
			metrics.NotificationsFailed.WithLabelValues(ch.Name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name, err))
		}
	}
	return errors.Join(errs...)
}

// LogNotifier records status changes in the application log. It is the
// fallback channel when AWS is not configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyStatusChange(_ context.Context, v *vendor.Vendor, e *vendor.StatusEvent) error {
	n.log.Info("vendor status notification",
		zap.String("vendor_id", v.ID.String()),
		zap.String("vendor", v.DisplayName()),
		zap.String("from", string(e.FromStatus)),
		zap.String("to", string(e.ToStatus)),
		zap.String("action", e.Action))
	return nil
}
