package intake_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/programme-lv/judge/api"
	"github.com/programme-lv/judge/internal/intake"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu       sync.Mutex
	batches  [][]types.Message
	fails    int
	deleted  []string
	received int
}

func (q *fakeQueue) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.received++
	if q.fails > 0 {
		q.fails--
		return nil, errors.New("temporary failure")
	}
	if len(q.batches) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	b := q.batches[0]
	q.batches = q.batches[1:]
	return &sqs.ReceiveMessageOutput{Messages: b}, nil
}

func (q *fakeQueue) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type recordingSubmitter struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingSubmitter) Submit(_ context.Context, subm api.Submission) *api.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, subm.SubmissionId)
	return &api.Result{SubmissionId: subm.SubmissionId, Verdict: api.Accepted}
}

func TestPollOnceSubmitsAndDeletes(t *testing.T) {
	zipped, err := api.EncodeSubmission(&api.Submission{SubmissionId: "s2", Language: "py", SourceCode: "print(1)"})
	require.NoError(t, err)

	q := &fakeQueue{batches: [][]types.Message{{
		{Body: aws.String(`{"submissionId":"s1","language":"cpp","sourceCode":"x"}`), ReceiptHandle: aws.String("r1")},
		{
			Body:          aws.String(zipped),
			ReceiptHandle: aws.String("r2"),
			MessageAttributes: map[string]types.MessageAttributeValue{
				api.EncodingAttrName: {DataType: aws.String("String"), StringValue: aws.String(api.EncodingZstdB64)},
			},
		},
		{Body: aws.String(`garbage`), ReceiptHandle: aws.String("r3")},
	}}}
	sub := &recordingSubmitter{}
	p := intake.NewPoller(q, "https://queue", sub)

	n, err := p.PollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []string{"s1", "s2"}, sub.ids)
	require.Equal(t, []string{"r1", "r2", "r3"}, q.deleted)
}

func TestRunRetriesAndStopsOnCancel(t *testing.T) {
	q := &fakeQueue{
		fails:   2,
		batches: [][]types.Message{{{Body: aws.String(`{"submissionId":"s1","language":"go","sourceCode":"x"}`), ReceiptHandle: aws.String("r1")}}},
	}
	sub := &recordingSubmitter{}
	p := intake.NewPoller(q, "https://queue", sub)
	p.RetryBackoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		return len(sub.ids) == 1
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}
