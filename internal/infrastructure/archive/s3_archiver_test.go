package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/notification"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

type stubPutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (s *stubPutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.input = params
	raw, _ := io.ReadAll(params.Body)
	s.body = string(raw)
	return &s3.PutObjectOutput{}, nil
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, time.October, 16, 20, 15, 0, 0, time.UTC)
	tests := []struct {
		name   string
		prefix string
		kind   string
		to     []string
		want   string
	}{
		{name: "single recipient", prefix: "mail", kind: notification.KindStandings, to: []string{"Jane@Example.com"}, want: "mail/2025/week-07/standings/jane-at-example-com-20251016t201500z.json"},
		{name: "several recipients", kind: notification.KindCommissioner, to: []string{"a@example.com", "b@example.com"}, want: "2025/week-07/commissioner/broadcast-20251016t201500z.json"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ObjectKey(tc.prefix, 2025, 7, tc.kind, tc.to, at); got != tc.want {
				t.Fatalf("ObjectKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestS3Archiver_Archive(t *testing.T) {
	t.Parallel()

	putter := &stubPutter{}
	archiver := newS3Archiver(putter, "lotw-archive", "/mail/", logging.NewNop())
	archiver.now = func() time.Time { return time.Date(2025, time.October, 16, 20, 15, 0, 0, time.UTC) }

	err := archiver.Archive(context.Background(), 2025, 7, notification.Email{
		Kind:     notification.KindLines,
		From:     "commish@example.com",
		To:       []string{"jane@example.com"},
		Subject:  "LOTW: Week 7 Lines",
		HTMLBody: "<table></table>",
	})
	if err != nil {
		t.Fatalf("Archive error: %v", err)
	}
	if aws.ToString(putter.input.Bucket) != "lotw-archive" {
		t.Fatalf("unexpected bucket %q", aws.ToString(putter.input.Bucket))
	}
	if key := aws.ToString(putter.input.Key); !strings.HasPrefix(key, "mail/2025/week-07/lines/") {
		t.Fatalf("unexpected key %q", key)
	}
	if !strings.Contains(putter.body, `"subject":"LOTW: Week 7 Lines"`) || !strings.Contains(putter.body, `"week":7`) {
		t.Fatalf("unexpected document: %s", putter.body)
	}
}

func TestS3Archiver_ArchiveFailure(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("access denied")
	archiver := newS3Archiver(&stubPutter{err: wantErr}, "lotw-archive", "", logging.NewNop())
	if err := archiver.Archive(context.Background(), 2025, 7, notification.Email{Kind: notification.KindLines}); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped put error, got %v", err)
	}
}
