package sqsgath

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go/ptr"
	"github.com/programme-lv/judge/api"
)

const verdictAttr = "verdict"

// Publish implements engine.ResultSink.
func (s *sqsResQueueGatherer) Publish(ctx context.Context, res *api.Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	out, err := s.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    ptr.String(s.queueUrl),
		MessageBody: ptr.String(string(b)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			verdictAttr: {
				DataType:    ptr.String("String"),
				StringValue: ptr.String(string(res.Verdict)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send result message: %w", err)
	}
	slog.Debug("sent result to sqs", "submission", res.SubmissionId, "message_id", ptr.ToString(out.MessageId))
	return nil
}
