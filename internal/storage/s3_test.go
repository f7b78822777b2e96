package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/reciclamais/recicla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3Client is a mock implementation of S3 client for testing
type MockS3Client struct {
	mock.Mock
}

// PutObject mocks the S3 PutObject operation
func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

// DeleteObject mocks the S3 DeleteObject operation
func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func TestS3Storage_Upload(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		setupMock  func(*MockS3Client)
		wantErr    bool
		errMessage string
	}{
		{
			name: "successful upload",
			key:  "complaints/abc/1-deadbeef-test.jpg",
			setupMock: func(m *MockS3Client) {
				m.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
					return aws.ToString(in.Bucket) == "test-bucket" &&
						aws.ToString(in.Key) == "complaints/abc/1-deadbeef-test.jpg" &&
						aws.ToString(in.ContentType) == "image/jpeg"
				}), mock.Anything).Return(&s3.PutObjectOutput{}, nil)
			},
		},
		{
			name: "upload failure - bucket not found",
			key:  "test.jpg",
			setupMock: func(m *MockS3Client) {
				m.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("NoSuchBucket: The specified bucket does not exist"))
			},
			wantErr:    true,
			errMessage: "failed to upload to S3",
		},
		{
			name: "upload failure - access denied",
			key:  "test.jpg",
			setupMock: func(m *MockS3Client) {
				m.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("AccessDenied: Access Denied"))
			},
			wantErr:    true,
			errMessage: "failed to upload to S3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := new(MockS3Client)
			tt.setupMock(mockClient)

			storage := NewS3Storage(mockClient, "test-bucket", "us-east-1", "https://test-bucket.s3.amazonaws.com")

			url, err := storage.Upload(context.Background(), tt.key, bytes.NewReader([]byte("data")), "image/jpeg")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMessage)
				assert.Empty(t, url)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "https://test-bucket.s3.amazonaws.com/"+tt.key, url)
			}

			mockClient.AssertExpectations(t)
		})
	}
}

func TestS3Storage_Upload_RecordsUploader(t *testing.T) {
	subjectID := uuid.New()
	ctx := recicla.NewContextWithSubject(context.Background(), &recicla.Subject{ID: subjectID, Role: recicla.RoleCitizen})

	mockClient := new(MockS3Client)
	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return in.Metadata["uploaded-by"] == subjectID.String()
	}), mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	storage := NewS3Storage(mockClient, "b", "us-east-1", "https://cdn.example.com")
	_, err := storage.Upload(ctx, "k.png", bytes.NewReader(nil), "image/png")

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestS3Storage_Upload_Anonymous(t *testing.T) {
	mockClient := new(MockS3Client)
	mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return in.Metadata == nil
	}), mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	storage := NewS3Storage(mockClient, "b", "us-east-1", "https://cdn.example.com")
	_, err := storage.Upload(context.Background(), "k.png", bytes.NewReader(nil), "image/png")

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestS3Storage_SessionCredential(t *testing.T) {
	tests := []struct {
		name        string
		sessionKeys *staticKeys
		credential  string
		wantOpts    int
	}{
		{name: "disabled", sessionKeys: nil, credential: "jwt", wantOpts: 0},
		{name: "no caller credential", sessionKeys: &staticKeys{accessKey: "ak", secretKey: "sk"}, wantOpts: 0},
		{name: "caller credential", sessionKeys: &staticKeys{accessKey: "ak", secretKey: "sk"}, credential: "jwt", wantOpts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewS3Storage(new(MockS3Client), "b", "us-east-1", "https://cdn.example.com")
			storage.sessionKeys = tt.sessionKeys

			ctx := context.Background()
			if tt.credential != "" {
				ctx = recicla.NewContextWithCredential(ctx, tt.credential)
			}

			opts := storage.callerCredentials(ctx)
			require.Len(t, opts, tt.wantOpts)

			if tt.wantOpts == 1 {
				var o s3.Options
				opts[0](&o)
				creds, err := o.Credentials.Retrieve(context.Background())
				require.NoError(t, err)
				assert.Equal(t, "ak", creds.AccessKeyID)
				assert.Equal(t, "sk", creds.SecretAccessKey)
				assert.Equal(t, "jwt", creds.SessionToken)
			}
		})
	}
}

func TestS3Storage_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockS3Client)
		wantErr   bool
	}{
		{
			name: "successful delete",
			setupMock: func(m *MockS3Client) {
				m.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
					return aws.ToString(in.Key) == "photo.jpg"
				}), mock.Anything).Return(&s3.DeleteObjectOutput{}, nil)
			},
		},
		{
			name: "delete failure",
			setupMock: func(m *MockS3Client) {
				m.On("DeleteObject", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("AccessDenied"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := new(MockS3Client)
			tt.setupMock(mockClient)

			storage := NewS3Storage(mockClient, "test-bucket", "us-east-1", "https://cdn.example.com")
			err := storage.Delete(context.Background(), "photo.jpg")

			if tt.wantErr {
				assert.ErrorContains(t, err, "failed to delete from S3")
			} else {
				assert.NoError(t, err)
			}
			mockClient.AssertExpectations(t)
		})
	}
}

func TestS3BaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  recicla.StorageConfig
		want string
	}{
		{
			name: "explicit base url",
			cfg:  recicla.StorageConfig{S3BaseURL: "https://cdn.example.com/", S3Bucket: "b"},
			want: "https://cdn.example.com",
		},
		{
			name: "s3 compatible endpoint",
			cfg:  recicla.StorageConfig{S3Endpoint: "https://proj.storage.example.co/storage/v1/s3", S3Bucket: "complaint-photos"},
			want: "https://proj.storage.example.co/storage/v1/s3/complaint-photos",
		},
		{
			name: "aws default",
			cfg:  recicla.StorageConfig{S3Bucket: "photos", S3Region: "sa-east-1"},
			want: "https://photos.s3.sa-east-1.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s3BaseURL(tt.cfg))
		})
	}
}
