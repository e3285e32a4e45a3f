package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	objects  map[string]string
	prefixes []string
	gotKey   string
	gotList  *s3.ListObjectsV2Input
	modified time.Time
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotKey = aws.ToString(in.Key)
	body, ok := f.objects[f.gotKey]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:         io.NopCloser(strings.NewReader(body)),
		LastModified: aws.Time(f.modified),
	}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.gotList = in
	out := &s3.ListObjectsV2Output{}
	for _, p := range f.prefixes {
		out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(p)})
	}
	return out, nil
}

func TestS3SourceGet(t *testing.T) {
	modified := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	client := &fakeS3{objects: map[string]string{"data/2024/team-ratings.json": "[]"}, modified: modified}
	src := newS3Source(client, "bucket", "data")

	obj, err := src.Get(context.Background(), "2024/team-ratings.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(obj.Body) != "[]" || !obj.LastModified.Equal(modified) {
		t.Fatalf("unexpected object: %+v", obj)
	}

	if _, err := src.Get(context.Background(), "2024/nope.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestS3SourceListStripsPrefix(t *testing.T) {
	client := &fakeS3{prefixes: []string{"data/2023/", "data/2024/"}}
	src := newS3Source(client, "bucket", "data")

	names, err := src.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "2023" || names[1] != "2024" {
		t.Fatalf("unexpected names: %v", names)
	}
	if aws.ToString(client.gotList.Prefix) != "data/" || aws.ToString(client.gotList.Delimiter) != "/" {
		t.Fatalf("unexpected list input: %+v", client.gotList)
	}
}

func TestS3SourceListEmptyIsNotFound(t *testing.T) {
	src := newS3Source(&fakeS3{}, "bucket", "data")

	if _, err := src.List(context.Background(), "1999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
