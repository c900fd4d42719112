package api_test

import (
	"testing"

	"github.com/programme-lv/judge/api"
	"github.com/stretchr/testify/require"
)

func TestDecodeSubmissionPlainJSON(t *testing.T) {
	body := `{"submissionId":"s1","language":"py","sourceCode":"print(1)","callbackTarget":"https://cb"}`
	subm, err := api.DecodeSubmission([]byte(body), api.EncodingJSON)
	require.NoError(t, err)
	require.Equal(t, "s1", subm.SubmissionId)
	require.Equal(t, "py", subm.Language)
	require.NotNil(t, subm.CallbackTarget)
	require.Equal(t, "https://cb", *subm.CallbackTarget)
	require.Zero(t, subm.MemoryLimitMb)
}

func TestDecodeSubmissionZstd(t *testing.T) {
	in := &api.Submission{
		SubmissionId:   "s2",
		Language:       "cpp",
		SourceCode:     "int main(){}",
		ExpectedOutput: "42\n",
		MemoryLimitMb:  64,
	}
	encoded, err := api.EncodeSubmission(in)
	require.NoError(t, err)

	out, err := api.DecodeSubmission([]byte(encoded), api.EncodingZstdB64)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodeSubmissionRejectsBadInput(t *testing.T) {
	_, err := api.DecodeSubmission([]byte(`{"language":"py"}`), api.EncodingJSON)
	require.Error(t, err)

	_, err = api.DecodeSubmission([]byte("not base64!"), api.EncodingZstdB64)
	require.Error(t, err)

	_, err = api.DecodeSubmission([]byte(`{}`), "gzip")
	require.Error(t, err)
}

func TestSubmissionWithDefaults(t *testing.T) {
	subm := api.Submission{SubmissionId: "x"}.WithDefaults(api.DefaultTimeLimitSeconds, api.DefaultMemoryLimitMb)
	require.Equal(t, 2.0, subm.TimeLimitSeconds)
	require.Equal(t, 256, subm.MemoryLimitMb)

	subm = api.Submission{TimeLimitSeconds: 0.5, MemoryLimitMb: 32}.WithDefaults(2, 256)
	require.Equal(t, 0.5, subm.TimeLimitSeconds)
	require.Equal(t, 32, subm.MemoryLimitMb)
}
