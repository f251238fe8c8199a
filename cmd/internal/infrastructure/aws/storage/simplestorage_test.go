package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	data, _ := io.ReadAll(params.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func TestUploadFile(t *testing.T) {
	fake := &fakePutObject{}
	client := &storageClient{bucket: "upra-exports", client: fake}

	key, err := client.UploadFile(context.Background(), []byte(`{"a":1}`), "exports/atos/x.json", "")
	require.NoError(t, err)
	assert.Equal(t, "exports/atos/x.json", key)
	assert.Equal(t, "upra-exports", aws.ToString(fake.input.Bucket))
	assert.True(t, strings.HasPrefix(aws.ToString(fake.input.ContentType), "application/json"))
	assert.Equal(t, `{"a":1}`, fake.body)
}

func TestUploadFileErrors(t *testing.T) {
	client := &storageClient{bucket: "b", client: &fakePutObject{err: errors.New("denied")}}

	_, err := client.UploadFile(context.Background(), []byte("x"), "", "text/plain")
	require.Error(t, err)

	_, err = client.UploadFile(context.Background(), []byte("x"), "k.json", "application/json")
	require.EqualError(t, err, "denied")
}

func TestExportKey(t *testing.T) {
	key := ExportKey("atos", "atos-shareholders-2025-01-02.csv")
	assert.True(t, strings.HasPrefix(key, "exports/atos/"))
	assert.True(t, strings.HasSuffix(key, "-atos-shareholders-2025-01-02.csv"))
	assert.NotEqual(t, key, ExportKey("atos", "atos-shareholders-2025-01-02.csv"))
}
