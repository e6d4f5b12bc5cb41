package db

import (
	"context"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
)

func (s *DB) CreateChallenge(ctx context.Context, in entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "CreateChallenge")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO challenges (id, user_id, token, purpose, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = s.conn.Exec(ctx, query, in.ID, in.UserID, in.Token, int16(in.Purpose), in.ExpiresAt, in.Metadata)
	return s.mapError(err)
}

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = s.conn.Exec(ctx, query, in.ID, in.UserID, in.Token, in.ExpiresAt, in.Metadata)
	return s.mapError(err)
}

func (s *DB) CreateKYCDocument(ctx context.Context, doc entity.KYCDocument) (err error) {
	ctx, span := s.startSpan(ctx, "CreateKYCDocument")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO kyc_documents (id, user_id, document_type, object_key, content_type, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.conn.Exec(ctx, query,
		doc.ID, doc.UserID, doc.DocumentType, doc.ObjectKey, doc.ContentType, int16(doc.Status), doc.SubmittedAt)
	return s.mapError(err)
}
