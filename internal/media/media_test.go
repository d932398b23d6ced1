package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitKeepsAspectRatio(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1000, 500))

	out := Fit(src, 200)
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 50, 80))
	assert.Same(t, small, Fit(small, 200))
}

func TestDecodePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoragePut(t *testing.T) {
	fake := &fakeS3{}
	s := &S3Storage{client: fake, bucket: "media", publicURL: "https://cdn.example"}

	url, err := s.Put(context.Background(), "logos/1/a.webp", "image/webp", []byte("data"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/logos/1/a.webp", url)
	assert.Equal(t, "media", *fake.in.Bucket)
	assert.Equal(t, "image/webp", *fake.in.ContentType)
	assert.Equal(t, []byte("data"), fake.body)
}

func TestObjectKey(t *testing.T) {
	k := ObjectKey("avatars", 7)
	assert.True(t, strings.HasPrefix(k, "avatars/7/"))
	assert.True(t, strings.HasSuffix(k, ".webp"))
}
