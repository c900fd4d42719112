package intake

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go/ptr"
	"github.com/programme-lv/judge/api"
)

// QueueAPI is the part of *sqs.Client the poller needs.
type QueueAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Submitter accepts one decoded submission.
type Submitter interface {
	Submit(ctx context.Context, subm api.Submission) *api.Result
}

// Poller long-polls a submission queue and hands records to the engine one
// at a time.
type Poller struct {
	client    QueueAPI
	queueUrl  string
	submitter Submitter

	MaxMessages  int32
	WaitSeconds  int32
	RetryBackoff time.Duration
}

func NewPoller(client QueueAPI, queueUrl string, submitter Submitter) *Poller {
	return &Poller{
		client:       client,
		queueUrl:     queueUrl,
		submitter:    submitter,
		MaxMessages:  10,
		WaitSeconds:  20,
		RetryBackoff: time.Second,
	}
}

// Run polls until ctx is cancelled. A submission being judged when that
// happens is finished first.
func (p *Poller) Run(ctx context.Context) error {
	slog.Info("polling submission queue", "queue", p.queueUrl)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, err := p.PollOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Error("failed to receive messages", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.RetryBackoff):
			}
			continue
		}
		if n > 0 {
			slog.Debug("processed message batch", "count", n)
		}
	}
}

// PollOnce receives one batch and processes its records sequentially.
func (p *Poller) PollOnce(ctx context.Context) (int, error) {
	out, err := p.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              ptr.String(p.queueUrl),
		MaxNumberOfMessages:   p.MaxMessages,
		WaitTimeSeconds:       p.WaitSeconds,
		MessageAttributeNames: []string{api.EncodingAttrName},
	})
	if err != nil {
		return 0, err
	}

	judgeCtx := context.WithoutCancel(ctx)
	for _, msg := range out.Messages {
		p.process(judgeCtx, msg)
	}
	return len(out.Messages), nil
}

func (p *Poller) process(ctx context.Context, msg types.Message) {
	encoding := api.EncodingJSON
	if attr, ok := msg.MessageAttributes[api.EncodingAttrName]; ok {
		encoding = ptr.ToString(attr.StringValue)
	}

	subm, err := api.DecodeSubmission([]byte(ptr.ToString(msg.Body)), encoding)
	if err != nil {
		slog.Error("dropping undecodable message", "message_id", ptr.ToString(msg.MessageId), "error", err)
	} else {
		p.submitter.Submit(ctx, *subm)
	}

	_, err = p.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      ptr.String(p.queueUrl),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		slog.Error("failed to delete message", "message_id", ptr.ToString(msg.MessageId), "error", err)
	}
}
