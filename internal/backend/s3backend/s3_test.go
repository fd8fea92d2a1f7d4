package s3backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/billarchive/internal/backend"
	"github.com/dmitrijs2005/billarchive/internal/common"
	"github.com/dmitrijs2005/billarchive/internal/domain"
)

type fakeObject struct {
	key  string
	mod  time.Time
	body string
}

// fakeS3 serves a fixed object set, one object or prefix per page.
type fakeS3 struct {
	objects []fakeObject
	listErr error
	getErr  error
	gets    []string
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	prefix := aws.ToString(in.Prefix)
	delim := aws.ToString(in.Delimiter)

	type entry struct {
		obj    *types.Object
		prefix string
	}
	var entries []entry
	seen := map[string]bool{}
	for _, o := range f.objects {
		if !strings.HasPrefix(o.key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(o.key, prefix)
		if delim != "" {
			if i := strings.Index(rest, delim); i >= 0 {
				cp := prefix + rest[:i+1]
				if !seen[cp] {
					seen[cp] = true
					entries = append(entries, entry{prefix: cp})
				}
				continue
			}
		}
		entries = append(entries, entry{obj: &types.Object{
			Key:          aws.String(o.key),
			LastModified: aws.Time(o.mod),
			Size:         aws.Int64(int64(len(o.body))),
			ETag:         aws.String(`"etag-` + o.key + `"`),
		}})
	}

	start := 0
	if in.ContinuationToken != nil {
		for i := range entries {
			if tok(entries[i].obj, entries[i].prefix) == *in.ContinuationToken {
				start = i
			}
		}
	}
	out := &s3.ListObjectsV2Output{}
	if start < len(entries) {
		e := entries[start]
		if e.obj != nil {
			out.Contents = append(out.Contents, *e.obj)
		} else {
			out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(e.prefix)})
		}
		if start+1 < len(entries) {
			next := entries[start+1]
			out.IsTruncated = aws.Bool(true)
			out.NextContinuationToken = aws.String(tok(next.obj, next.prefix))
		}
	}
	return out, nil
}

func tok(o *types.Object, prefix string) string {
	if o != nil {
		return "k:" + aws.ToString(o.Key)
	}
	return "p:" + prefix
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.gets = append(f.gets, key)
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, o := range f.objects {
		if o.key == key {
			return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(o.body))}, nil
		}
	}
	return nil, &types.NoSuchKey{Message: aws.String("no such key")}
}

func day(d int) time.Time { return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC) }

func newFake() *fakeS3 {
	return &fakeS3{objects: []fakeObject{
		{key: "bills/acc1/invoice/2024-01.pdf", mod: day(1), body: "%PDF-1"},
		{key: "bills/acc1/invoice/2024-03.PDF", mod: day(3), body: "%PDF-3"},
		{key: "bills/acc1/notes.txt", mod: day(2), body: "hello"},
		{key: "bills/acc1/.hidden/x.pdf", mod: day(9), body: "x"},
		{key: "bills/acc1/folder/", mod: day(9)},
		{key: "bills/acc2/a.pdf", mod: day(5), body: "%PDF-a"},
		{key: "bills/.trash/a.pdf", mod: day(5), body: "%PDF-a"},
		{key: "other/acc3/a.pdf", mod: day(5), body: "%PDF-a"},
	}}
}

func collectSubs(t *testing.T, b *Backend) []domain.Subscription {
	t.Helper()
	var out []domain.Subscription
	for s, err := range b.Subscriptions(context.Background()) {
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestSubscriptions_FirstLevelPrefixes(t *testing.T) {
	b := NewWithClient("bk", "bucket", "bills", newFake())

	subs := collectSubs(t, b)
	require.Len(t, subs, 2)
	assert.Equal(t, "acc1", subs[0].ID)
	assert.Equal(t, "s3://bucket/bills/acc1/", subs[0].URL)
	assert.Equal(t, "acc2", subs[1].ID)
}

func TestDocuments_NewestFirstWithMappedFields(t *testing.T) {
	b := NewWithClient("bk", "bucket", "bills/", newFake())

	var docs []domain.Document
	for d, err := range b.Documents(context.Background(), domain.Subscription{ID: "acc1"}) {
		require.NoError(t, err)
		docs = append(docs, d)
	}
	require.Len(t, docs, 3)

	assert.Equal(t, "invoice/2024-03", docs[0].ID)
	assert.Equal(t, "pdf", docs[0].Format)
	assert.Equal(t, "invoice", docs[0].Type)
	assert.Equal(t, "2024-03", docs[0].Label)
	assert.Equal(t, "bills/acc1/invoice/2024-03.PDF", docs[0].URL)
	assert.True(t, docs[0].HasFile)
	assert.Equal(t, day(3), *docs[0].Date)
	assert.Equal(t, "6", docs[0].Extra["size"])
	assert.Equal(t, "etag-bills/acc1/invoice/2024-03.PDF", docs[0].Extra["etag"])

	assert.Equal(t, "notes", docs[1].ID)
	assert.Equal(t, "", docs[1].Type)
	assert.Equal(t, "txt", docs[1].Format)

	assert.Equal(t, "invoice/2024-01", docs[2].ID)
}

func TestDocuments_StopsWhenConsumerStops(t *testing.T) {
	b := NewWithClient("bk", "bucket", "bills", newFake())
	n := 0
	for range b.Documents(context.Background(), domain.Subscription{ID: "acc1"}) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestListing_ErrorIsYielded(t *testing.T) {
	f := newFake()
	f.listErr = errors.New("access denied")
	b := NewWithClient("bk", "bucket", "", f)

	for _, err := range b.Subscriptions(context.Background()) {
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	}
	for _, err := range b.Documents(context.Background(), domain.Subscription{ID: "x"}) {
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list documents of x")
	}
}

func TestDownload(t *testing.T) {
	f := newFake()
	b := NewWithClient("bk", "bucket", "bills", f)
	ctx := context.Background()

	data, err := b.Download(ctx, domain.Document{URL: "bills/acc2/a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-a"), data)

	data, err = b.Download(ctx, domain.Document{URL: "bills/missing.pdf"})
	require.NoError(t, err)
	assert.Empty(t, data)

	f.getErr = errors.New("timeout")
	_, err = b.Download(ctx, domain.Document{URL: "bills/acc2/a.pdf"})
	assert.ErrorContains(t, err, "timeout")
}

func TestNew_AppliesParams(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var lo awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{}, nil
	}
	var so s3.Options
	fake := newFake()
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) API {
		for _, fn := range optFns {
			fn(&so)
		}
		return fake
	}

	b, err := backend.Build(context.Background(), Module, "minio", backend.Params{
		"bucket":     "bucket",
		"prefix":     "bills",
		"region":     "eu-west-1",
		"endpoint":   "http://127.0.0.1:9000",
		"access_key": "minioadmin",
		"secret_key": "secret",
		"path_style": "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "minio", b.Name())
	assert.Equal(t, "eu-west-1", lo.Region)
	require.NotNil(t, lo.Credentials)
	creds, err := lo.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minioadmin", creds.AccessKeyID)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(so.BaseEndpoint))
	assert.True(t, so.UsePathStyle)
	assert.True(t, backend.InterleaveSafe(b))
	assert.Len(t, collectSubs(t, b.(*Backend)), 2)
}

func TestNew_ParamErrors(t *testing.T) {
	_, err := New(context.Background(), "x", backend.Params{})
	assert.ErrorIs(t, err, common.ErrMissingParam)

	_, err = New(context.Background(), "x", backend.Params{"bucket": "b", "path_style": "maybe"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestNew_LoadConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := New(context.Background(), "x", backend.Params{"bucket": "b"})
	assert.ErrorContains(t, err, "load aws config: no profile")
}
