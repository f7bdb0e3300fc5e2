package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/georgemunganga/pharmahub-backend/internal/modules/vendor"
)

// EventStatusChanged is the event type published for every transition.
const EventStatusChanged = "vendor.status_changed"

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// StatusChangedEvent is the JSON body published to the topic.
type StatusChangedEvent struct {
	Type        string    `json:"type"`
	EventID     string    `json:"event_id"`
	VendorID    string    `json:"vendor_id"`
	VendorName  string    `json:"vendor_name"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	Action      string    `json:"action"`
	Reason      string    `json:"reason,omitempty"`
	PerformedBy string    `json:"performed_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher publishes status changes to an SNS topic for downstream
// consumers.
type EventPublisher struct {
	client   SNSAPI
	topicARN string
}

func NewEventPublisher(client SNSAPI, topicARN string) *EventPublisher {
	return &EventPublisher{client: client, topicARN: topicARN}
}

func (p *EventPublisher) NotifyStatusChange(ctx context.Context, v *vendor.Vendor, e *vendor.StatusEvent) error {
	payload, err := json.Marshal(StatusChangedEvent{
		Type:        EventStatusChanged,
		EventID:     e.ID.String(),
		VendorID:    v.ID.String(),
		VendorName:  v.DisplayName(),
		FromStatus:  string(e.FromStatus),
		ToStatus:    string(e.ToStatus),
		Action:      e.Action,
		Reason:      e.Reason,
		PerformedBy: e.PerformedBy.String(),
		OccurredAt:  e.CreatedAt,
	})
	if err != nil {
		return err
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventStatusChanged)},
			"to_status":  {DataType: aws.String("String"), StringValue: aws.String(string(e.ToStatus))},
		},
	})
	if err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	return nil
}
