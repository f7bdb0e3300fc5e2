package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/georgemunganga/pharmahub-backend/internal/modules/vendor"
)

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailNotifier tells the vendor about its new status by email.
type EmailNotifier struct {
	client SESAPI
	sender string
}

func NewEmailNotifier(client SESAPI, sender string) *EmailNotifier {
	return &EmailNotifier{client: client, sender: sender}
}

// NotifyStatusChange sends one email. Vendors without an address are skipped.
func (n *EmailNotifier) NotifyStatusChange(ctx context.Context, v *vendor.Vendor, e *vendor.StatusEvent) error {
	if v.Email == "" {
		return nil
	}
	subject, body := composeEmail(v, e)
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{v.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.sender),
	})
	if err != nil {
		return fmt.Errorf("send status email: %w", err)
	}
	return nil
}

func composeEmail(v *vendor.Vendor, e *vendor.StatusEvent) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", v.DisplayName())

	switch e.ToStatus {
	case vendor.StatusApproved:
		if e.FromStatus == vendor.StatusSuspended {
			subject = "Your PharmaHub account has been reactivated"
			b.WriteString("Your vendor account has been reactivated. You can trade on PharmaHub again.\n")
		} else {
			subject = "Your PharmaHub vendor application was approved"
			b.WriteString("Your vendor application has been approved. You can now start trading on PharmaHub.\n")
		}
	case vendor.StatusRejected:
		subject = "Your PharmaHub vendor application was not approved"
		b.WriteString("We were unable to approve your vendor application.\n")
		fmt.Fprintf(&b, "\nReason: %s\n", strings.TrimSpace(e.Reason))
	case vendor.StatusSuspended:
		subject = "Your PharmaHub account has been suspended"
		b.WriteString("Your vendor account has been suspended and trading is paused.\n")
		fmt.Fprintf(&b, "\nReason: %s\n", strings.TrimSpace(e.Reason))
	default:
		subject = "Your PharmaHub account status changed"
		fmt.Fprintf(&b, "Your account status is now %s.\n", e.ToStatus)
	}

	b.WriteString("\nThe PharmaHub team\n")
	return subject, b.String()
}
