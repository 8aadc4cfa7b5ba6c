package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePresigner struct {
	putKey string
	getKey string
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.putKey = aws.ToString(in.Key)
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example/" + f.putKey + "?put"}, nil
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.getKey = aws.ToString(in.Key)
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example/" + f.getKey + "?get"}, nil
}

func newTestPhotoService() (*PhotoService, *fakePresigner) {
	f := &fakePresigner{}
	return &PhotoService{
		Presigner: f,
		Bucket:    "photos",
		now:       func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	}, f
}

func TestPhotoKey_StripsDirectories(t *testing.T) {
	key := PhotoKey("U1", "../../etc/me.jpg", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	if !strings.HasPrefix(key, "profile-pics/U1/20250301120000-") || !strings.HasSuffix(key, "-me.jpg") {
		t.Errorf("key = %q", key)
	}
	if !OwnsPhotoKey("U1", key) {
		t.Error("owner does not own its own key")
	}
}

func TestOwnsPhotoKey(t *testing.T) {
	cases := []struct {
		owner, key string
		want       bool
	}{
		{"U1", "profile-pics/U1/a.jpg", true},
		{"U1", "profile-pics/U2/a.jpg", false},
		{"U1", "profile-pics/U10/a.jpg", false},
		{"U1", "profile-pics/U1/../U2/a.jpg", false},
		{"", "profile-pics//a.jpg", false},
	}
	for _, c := range cases {
		if got := OwnsPhotoKey(c.owner, c.key); got != c.want {
			t.Errorf("OwnsPhotoKey(%q, %q) = %v, want %v", c.owner, c.key, got, c.want)
		}
	}
}

func TestGenerateUploadURL(t *testing.T) {
	ps, f := newTestPhotoService()

	url, key, err := ps.GenerateUploadURL(context.Background(), "U1", "me.png", "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != f.putKey || !OwnsPhotoKey("U1", key) || !strings.Contains(url, key) {
		t.Errorf("url = %q, key = %q", url, key)
	}

	if _, _, err := ps.GenerateUploadURL(context.Background(), "U1", "notes.txt", "text/plain"); err == nil {
		t.Error("non-image upload accepted")
	}
	if _, _, err := ps.GenerateUploadURL(context.Background(), "", "me.png", "image/png"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestGenerateReadURL(t *testing.T) {
	ps, f := newTestPhotoService()

	if _, err := ps.GenerateReadURL(context.Background(), "U1", "profile-pics/U2/a.jpg"); err != nil {
		t.Fatalf("reading a partner's photo failed: %v", err)
	}
	if f.getKey != "profile-pics/U2/a.jpg" {
		t.Errorf("presigned key = %q", f.getKey)
	}

	for _, key := range []string{"secrets/config.json", "profile-pics/../secrets"} {
		var v *ValidationError
		if _, err := ps.GenerateReadURL(context.Background(), "U1", key); !errors.As(err, &v) {
			t.Errorf("GenerateReadURL(%q) err = %v, want ValidationError", key, err)
		}
	}
}
