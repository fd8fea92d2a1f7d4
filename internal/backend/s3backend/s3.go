// Package s3backend archives documents kept in an S3-compatible bucket.
//
// Every first-level "directory" under the configured prefix is a
// subscription and every object below it is a document:
//
//	<prefix><subscription>/<type>/<name>.<format>
package s3backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/billarchive/internal/backend"
	"github.com/dmitrijs2005/billarchive/internal/domain"
)

const Module = "s3"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

func init() {
	backend.Register(Module, New)
}

// API is the part of *s3.Client the backend uses.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Backend struct {
	name   string
	bucket string
	prefix string
	client API
}

// New builds a backend from params: bucket (required), prefix, region,
// endpoint, access_key, secret_key and path_style.
func New(ctx context.Context, name string, params backend.Params) (backend.Backend, error) {
	bucket, err := params.Required("bucket")
	if err != nil {
		return nil, err
	}
	pathStyle, err := params.Bool("path_style", false)
	if err != nil {
		return nil, err
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Get("region", "us-east-1")),
	}
	if key := params.Get("access_key", ""); key != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, params.Get("secret_key", ""), "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := params.Get("endpoint", "")
	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	return NewWithClient(name, bucket, params.Get("prefix", ""), client), nil
}

// NewWithClient builds a backend over an existing client.
func NewWithClient(name, bucket, prefix string, client API) *Backend {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Backend{name: name, bucket: bucket, prefix: prefix, client: client}
}

func (b *Backend) Name() string { return b.name }

// InterleaveSafe is true: every call is an independent HTTP request.
func (b *Backend) InterleaveSafe() bool { return true }

func (b *Backend) Subscriptions(ctx context.Context) iter.Seq2[domain.Subscription, error] {
	return func(yield func(domain.Subscription, error) bool) {
		p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
			Bucket:    aws.String(b.bucket),
			Prefix:    aws.String(b.prefix),
			Delimiter: aws.String("/"),
		})
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				yield(domain.Subscription{}, fmt.Errorf("list subscriptions: %w", err))
				return
			}
			for _, cp := range page.CommonPrefixes {
				id := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), b.prefix), "/")
				if id == "" || strings.HasPrefix(id, ".") {
					continue
				}
				sub := domain.Subscription{
					ID:    id,
					Label: id,
					URL:   fmt.Sprintf("s3://%s/%s%s/", b.bucket, b.prefix, id),
				}
				if !yield(sub, nil) {
					return
				}
			}
		}
	}
}

// Documents lists every object of sub, newest first. The whole listing is
// fetched before the first document is yielded so that it can be sorted.
func (b *Backend) Documents(ctx context.Context, sub domain.Subscription) iter.Seq2[domain.Document, error] {
	return func(yield func(domain.Document, error) bool) {
		subPrefix := b.prefix + sub.ID + "/"
		var objects []types.Object

		p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
			Bucket: aws.String(b.bucket),
			Prefix: aws.String(subPrefix),
		})
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				yield(domain.Document{}, fmt.Errorf("list documents of %s: %w", sub.ID, err))
				return
			}
			for _, obj := range page.Contents {
				rel := strings.TrimPrefix(aws.ToString(obj.Key), subPrefix)
				if rel == "" || strings.HasSuffix(rel, "/") || hidden(rel) {
					continue
				}
				objects = append(objects, obj)
			}
		}

		sort.SliceStable(objects, func(i, j int) bool {
			return aws.ToTime(objects[i].LastModified).After(aws.ToTime(objects[j].LastModified))
		})

		for _, obj := range objects {
			if !yield(document(subPrefix, obj), nil) {
				return
			}
		}
	}
}

func (b *Backend) Download(ctx context.Context, doc domain.Document) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(doc.URL),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("get object %s: %w", doc.URL, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", doc.URL, err)
	}
	return data, nil
}

func document(subPrefix string, obj types.Object) domain.Document {
	key := aws.ToString(obj.Key)
	rel := strings.TrimPrefix(key, subPrefix)
	ext := path.Ext(rel)
	id := strings.TrimSuffix(rel, ext)

	doc := domain.Document{
		ID:      id,
		URL:     key,
		Label:   path.Base(id),
		Format:  strings.ToLower(strings.TrimPrefix(ext, ".")),
		HasFile: true,
		Extra:   map[string]string{},
	}
	if dir, _, ok := strings.Cut(rel, "/"); ok {
		doc.Type = dir
	}
	if obj.LastModified != nil {
		t := *obj.LastModified
		doc.Date = &t
	}
	if obj.Size != nil {
		doc.Extra["size"] = strconv.FormatInt(*obj.Size, 10)
	}
	if obj.ETag != nil {
		doc.Extra["etag"] = strings.Trim(*obj.ETag, `"`)
	}
	return doc
}

func hidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
