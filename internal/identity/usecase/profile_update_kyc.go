package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/storage"
)

//nolint:gochecknoglobals // global for fast reuse
var kycContentTypeExt = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

//nolint:gochecknoglobals // global for fast reuse
var kycDocumentTypes = map[string]struct{}{
	"passport":        {},
	"national_id":     {},
	"drivers_license": {},
}

var errKYCTooLarge = errors.New("kyc document exceeds max size")

type ProfileUpdateKYCInput struct {
	File         io.Reader
	ContentType  string
	DocumentType string
}

// ProfileUpdateKYC stores an identity document for manual review. The file
// goes to the private KYC bucket; only the object key is persisted.
func (s *Usecase) ProfileUpdateKYC(ctx context.Context, in ProfileUpdateKYCInput) error {
	ctx, span := s.startSpan(ctx, "ProfileUpdateKYC")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	if in.File == nil {
		return goerror.NewInvalidInput(nil, "document", "kyc document file is required")
	}

	docType := strings.ToLower(strings.TrimSpace(in.DocumentType))
	if _, ok := kycDocumentTypes[docType]; !ok {
		return goerror.NewInvalidInput(nil, "document_type", "unsupported document type")
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := kycContentTypeExt[contentType]
	if !ok {
		return goerror.NewInvalidInput(nil, "document", "unsupported document content type")
	}

	user, err := s.repoDB.GetUserByEmail(ctx, clm.UserEmail, false)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", clm.UserEmail)
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", clm.UserEmail, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.identity.kyc_bucket"))
	key := fmt.Sprintf("%d/%s/%s%s", user.ID, docType, s.uuid.Generate(), ext)
	maxSize := s.cfg.GetInt64("modules.identity.kyc_max_size_bytes")

	reader := &maxBytesReader{
		r:    in.File,
		max:  maxSize,
		fail: errKYCTooLarge,
	}
	_, err = s.storage.PutObject(ctx, bucket, key, reader, storage.PutOptions{
		Size:        -1,
		ContentType: contentType,
		Metadata:    map[string]string{"user_id": strconv.FormatInt(user.ID, 10)},
	})
	if err != nil {
		if errors.Is(err, errKYCTooLarge) {
			return goerror.NewInvalidInput(errKYCTooLarge)
		}
		slog.ErrorContext(ctx, "failed to upload kyc document", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	doc := entity.KYCDocument{
		ID:           s.uid.Generate(),
		UserID:       user.ID,
		DocumentType: docType,
		ObjectKey:    key,
		ContentType:  contentType,
		Status:       entity.KYCStatusPending,
		SubmittedAt:  s.clock.Now(),
	}

	if err := s.repoDB.CreateKYCDocument(ctx, doc); err != nil {
		slog.ErrorContext(ctx, "failed to repo create kyc document", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
