package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/config"
)

func TestAppDir(t *testing.T) {
	assert.Equal(t, "apps/a7", AppDir(7))
	assert.Equal(t, "apps/a7/", Prefix(7))
}

func TestLocalStore_RemoveApp(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)

	appDir := filepath.Join(root, "apps", "a1")
	require.NoError(t, os.MkdirAll(filepath.Join(appDir, "icons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "app.ipa"), []byte("binary"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "icons", "icon.png"), []byte("png"), 0o644))

	sibling := filepath.Join(root, "apps", "a10")
	require.NoError(t, os.MkdirAll(sibling, 0o755))

	assert.Equal(t, appDir, store.Location(1))
	require.NoError(t, store.RemoveApp(context.Background(), 1))

	assert.NoDirExists(t, appDir)
	assert.DirExists(t, sibling)
}

func TestLocalStore_RemoveApp_Missing(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	assert.NoError(t, store.RemoveApp(context.Background(), 99))

	store = NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.NoError(t, store.RemoveApp(context.Background(), 1))
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(aws.ToString(params.Prefix), aws.ToString(params.ContinuationToken))
	if out := args.Get(0); out != nil {
		return out.(*s3.ListObjectsV2Output), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	var keys []string
	for _, object := range params.Delete.Objects {
		keys = append(keys, aws.ToString(object.Key))
	}
	args := m.Called(keys)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectsOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func objects(keys ...string) []s3types.Object {
	result := make([]s3types.Object, 0, len(keys))
	for _, key := range keys {
		result = append(result, s3types.Object{Key: aws.String(key)})
	}
	return result
}

func TestS3Store_RemoveApp(t *testing.T) {
	client := &mockS3{}
	client.On("ListObjectsV2", "apps/a3/", "").Return(&s3.ListObjectsV2Output{
		Contents:              objects("apps/a3/app.apk", "apps/a3/icon.png"),
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil)
	client.On("ListObjectsV2", "apps/a3/", "page-2").Return(&s3.ListObjectsV2Output{
		Contents:    objects("apps/a3/older.apk"),
		IsTruncated: aws.Bool(false),
	}, nil)
	client.On("DeleteObjects", []string{"apps/a3/app.apk", "apps/a3/icon.png"}).Return(&s3.DeleteObjectsOutput{}, nil)
	client.On("DeleteObjects", []string{"apps/a3/older.apk"}).Return(&s3.DeleteObjectsOutput{}, nil)

	store := NewS3StoreWithClient("zealot-assets", client)
	assert.Equal(t, "s3://zealot-assets/apps/a3/", store.Location(3))
	require.NoError(t, store.RemoveApp(context.Background(), 3))

	client.AssertExpectations(t)
}

func TestS3Store_RemoveApp_Empty(t *testing.T) {
	client := &mockS3{}
	client.On("ListObjectsV2", "apps/a4/", "").Return(&s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}, nil)

	store := NewS3StoreWithClient("zealot-assets", client)
	require.NoError(t, store.RemoveApp(context.Background(), 4))

	client.AssertNotCalled(t, "DeleteObjects", mock.Anything)
}

func TestS3Store_RemoveApp_Errors(t *testing.T) {
	t.Run("list fails", func(t *testing.T) {
		client := &mockS3{}
		client.On("ListObjectsV2", "apps/a5/", "").Return(nil, errors.New("access denied"))

		err := NewS3StoreWithClient("b", client).RemoveApp(context.Background(), 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("partial delete", func(t *testing.T) {
		client := &mockS3{}
		client.On("ListObjectsV2", "apps/a5/", "").Return(&s3.ListObjectsV2Output{
			Contents:    objects("apps/a5/app.apk"),
			IsTruncated: aws.Bool(false),
		}, nil)
		client.On("DeleteObjects", []string{"apps/a5/app.apk"}).Return(&s3.DeleteObjectsOutput{
			Errors: []s3types.Error{{Key: aws.String("apps/a5/app.apk"), Message: aws.String("locked")}},
		}, nil)

		err := NewS3StoreWithClient("b", client).RemoveApp(context.Background(), 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "locked")
	})
}

func TestNewS3Store(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew
	})

	var loadOptions awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			require.NoError(t, fn(&loadOptions))
		}
		return aws.Config{}, nil
	}

	var s3Options s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		for _, fn := range optFns {
			fn(&s3Options)
		}
		return &mockS3{}
	}

	store, err := NewS3Store(context.Background(), S3Options{
		Bucket:          "zealot-assets",
		Region:          "eu-west-1",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
	})
	require.NoError(t, err)

	assert.Equal(t, "zealot-assets", store.Bucket)
	assert.Equal(t, "eu-west-1", loadOptions.Region)
	assert.NotNil(t, loadOptions.Credentials)
	require.NotNil(t, s3Options.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *s3Options.BaseEndpoint)
	assert.True(t, s3Options.UsePathStyle)

	_, err = NewS3Store(context.Background(), S3Options{})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	cfg := &config.ZealotConfig{StorageBackend: config.StorageLocal, UploadsRoot: "/srv/uploads"}
	store, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/uploads", "apps", "a1"), store.Location(1))

	_, err = New(context.Background(), &config.ZealotConfig{StorageBackend: "ftp"})
	assert.Error(t, err)
}
