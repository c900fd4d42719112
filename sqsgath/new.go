package sqsgath

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SendMessageAPI is the part of *sqs.Client the gatherer needs.
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type sqsResQueueGatherer struct {
	sqsClient SendMessageAPI
	queueUrl  string
}

// New publishes results to queueUrl through an existing client.
func New(client SendMessageAPI, queueUrl string) *sqsResQueueGatherer {
	return &sqsResQueueGatherer{
		sqsClient: client,
		queueUrl:  queueUrl,
	}
}

// NewSqsResultQueueGatherer loads the default AWS config for region.
func NewSqsResultQueueGatherer(ctx context.Context, region string, resultSqsUrl string) (*sqsResQueueGatherer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return New(sqs.NewFromConfig(cfg), resultSqsUrl), nil
}
