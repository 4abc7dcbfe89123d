package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Announcer publishes new profiles to a topic the processing service subscribes to.
type Announcer struct {
	sns      SNSPublisher
	topicArn string
}

// NewAnnouncer returns nil when no topic is configured; a nil Announcer is a no-op.
func NewAnnouncer(client SNSPublisher, topicArn string) *Announcer {
	topicArn = strings.TrimSpace(topicArn)
	if client == nil || topicArn == "" {
		return nil
	}
	return &Announcer{sns: client, topicArn: topicArn}
}

// UserCreated publishes the already-encoded profile as the message body.
func (a *Announcer) UserCreated(ctx context.Context, profileJSON []byte) error {
	if a == nil {
		return nil
	}

	_, err := a.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(a.topicArn),
		Subject:  aws.String("user.created"),
		Message:  aws.String(string(profileJSON)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String("user.created")},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish user.created: %w", err)
	}
	return nil
}
