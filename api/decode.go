package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Payload encodings understood by DecodeSubmission. Large sources are sent
// compressed to stay under queue message size limits.
const (
	EncodingJSON     = ""
	EncodingZstdB64  = "zstd+base64"
	EncodingAttrName = "content-encoding"
)

var zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))

// DecodeSubmission parses a queue message body into a Submission.
func DecodeSubmission(body []byte, encoding string) (*Submission, error) {
	switch encoding {
	case EncodingJSON:
	case EncodingZstdB64:
		compressed, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
		}
		body, err = zstdDecoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress payload: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported payload encoding %q", encoding)
	}

	var subm Submission
	if err := json.Unmarshal(body, &subm); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	if subm.SubmissionId == "" {
		return nil, fmt.Errorf("submission is missing submissionId")
	}
	return &subm, nil
}

// EncodeSubmission is the inverse of DecodeSubmission for EncodingZstdB64.
func EncodeSubmission(subm *Submission) (string, error) {
	raw, err := json.Marshal(subm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submission: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer enc.Close()
	return base64.StdEncoding.EncodeToString(enc.EncodeAll(raw, nil)), nil
}
