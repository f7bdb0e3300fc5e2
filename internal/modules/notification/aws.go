package notification

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/platform/config"
)

// New assembles the notifier for cfg. The log channel is always present;
// SES and SNS join it when a region and their target are configured.
func New(ctx context.Context, cfg config.AWSConfig, log *zap.Logger) (*Multi, error) {
	channels := []Channel{{Name: "log", Notifier: NewLogNotifier(log)}}
	if cfg.Region == "" {
		log.Info("AWS notifications disabled, no region configured")
		return NewMulti(channels...), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.SenderEmail != "" {
		channels = append(channels, Channel{Name: "email", Notifier: NewEmailNotifier(ses.NewFromConfig(awsCfg), cfg.SenderEmail)})
	}
	if cfg.EventTopicARN != "" {
		channels = append(channels, Channel{Name: "sns", Notifier: NewEventPublisher(sns.NewFromConfig(awsCfg), cfg.EventTopicARN)})
	}
	return NewMulti(channels...), nil
}
