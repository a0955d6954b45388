package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkolesni/timecapsule/internal/common"
	sc "github.com/dkolesni/timecapsule/internal/server/config"
	"github.com/dkolesni/timecapsule/internal/server/models"
	"github.com/dkolesni/timecapsule/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// FileSlot is a reserved location for one encrypted blob: the storage key
// to record in the file metadata and a presigned URL the client PUTs the
// ciphertext to before the URL expires.
type FileSlot struct {
	FilePath  string
	UploadURL string
}

// FileView is a stored file record plus a presigned download URL.
type FileView struct {
	File        *models.File
	DownloadURL string
}

// CapsuleService stores and serves capsule records and file metadata.
// Everything it touches is ciphertext; the unlock flag is the only state
// it ever mutates.
type CapsuleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewCapsuleService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *CapsuleService {
	return &CapsuleService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// Create persists a capsule record for userID and returns its id.
func (s *CapsuleService) Create(ctx context.Context, userID string, capsule *models.Capsule) (string, error) {
	if !common.CapsuleType(capsule.CapsuleType).Valid() {
		return "", fmt.Errorf("invalid capsule type: %q", capsule.CapsuleType)
	}

	capsule.ID = uuid.NewString()
	capsule.UserID = userID
	capsule.CreatedAt = time.Now().UTC()
	capsule.IsUnlocked = false

	repo := s.repomanager.Capsules(s.db)
	if err := repo.Create(ctx, capsule); err != nil {
		return "", fmt.Errorf("error creating capsule: %w", err)
	}
	return capsule.ID, nil
}

// ListForUser returns all of userID's capsule records, newest first.
func (s *CapsuleService) ListForUser(ctx context.Context, userID string) ([]*models.Capsule, error) {
	repo := s.repomanager.Capsules(s.db)
	result, err := repo.SelectByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error selecting capsules: %w", err)
	}
	return result, nil
}

// GetForUser returns the capsule by id if it belongs to userID. A record
// that does not exist and a record owned by someone else both come back as
// common.ErrorNotFound, so callers cannot probe for foreign records.
func (s *CapsuleService) GetForUser(ctx context.Context, id string, userID string) (*models.Capsule, error) {
	repo := s.repomanager.Capsules(s.db)
	capsule, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting capsule: %w", err)
	}
	if capsule.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return capsule, nil
}

// Unlock persists is_unlocked=true for the owner's capsule. Idempotent;
// the flag never goes back to false.
func (s *CapsuleService) Unlock(ctx context.Context, id string, userID string) error {
	repo := s.repomanager.Capsules(s.db)
	if err := repo.MarkUnlocked(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error unlocking capsule: %w", err)
	}
	return nil
}

// CreateFileSlot reserves an object-storage key under the owner's capsule
// and returns it with a presigned PUT URL. The capsule must exist and
// belong to userID.
func (s *CapsuleService) CreateFileSlot(ctx context.Context, capsuleID string, userID string) (*FileSlot, error) {
	if _, err := s.GetForUser(ctx, capsuleID, userID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("capsule-files/%s/%s/%s", userID, capsuleID, uuid.NewString())

	url, err := s.presignPut(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}
	return &FileSlot{FilePath: key, UploadURL: url}, nil
}

// CreateFile persists one attached-file metadata record.
func (s *CapsuleService) CreateFile(ctx context.Context, userID string, file *models.File) (string, error) {
	if _, err := s.GetForUser(ctx, file.CapsuleID, userID); err != nil {
		return "", err
	}

	file.ID = uuid.NewString()
	file.UserID = userID
	file.CreatedAt = time.Now().UTC()

	repo := s.repomanager.Files(s.db)
	if err := repo.Create(ctx, file); err != nil {
		return "", fmt.Errorf("error creating file record: %w", err)
	}
	return file.ID, nil
}

// ListFiles returns the capsule's file records, each with a time-limited
// download URL for the encrypted blob.
func (s *CapsuleService) ListFiles(ctx context.Context, capsuleID string, userID string) ([]*FileView, error) {
	if _, err := s.GetForUser(ctx, capsuleID, userID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Files(s.db)
	records, err := repo.SelectByCapsule(ctx, capsuleID, userID)
	if err != nil {
		return nil, fmt.Errorf("error selecting files: %w", err)
	}

	result := make([]*FileView, 0, len(records))
	for _, f := range records {
		url, err := s.presignGet(ctx, f.FilePath)
		if err != nil {
			return nil, fmt.Errorf("error presigning download: %w", err)
		}
		result = append(result, &FileView{File: f, DownloadURL: url})
	}
	return result, nil
}

func (s *CapsuleService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *CapsuleService) presignPut(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.BlobURLExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *CapsuleService) presignGet(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.BlobURLExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
