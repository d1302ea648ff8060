package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrPoolRequired indicates the adapter was built without a connection pool.
var ErrPoolRequired = errors.New("db: connection pool is required")

// DB writes the append-only verification audit trail.
type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Record appends one audit entry. Entries are never updated or deleted by
// this service.
func (s *DB) Record(ctx context.Context, rec entity.AuditRecord) (err error) {
	ctx, span := s.startSpan(ctx, "Record")
	defer func() { s.endSpan(span, err) }()

	if s.conn == nil {
		return ErrPoolRequired
	}

	const q = `
		INSERT INTO verification_audits (phone, action, detail, occurred_at)
		VALUES ($1, $2, $3, $4)`

	_, err = s.conn.Exec(ctx, q, rec.Phone, rec.Action.String(), rec.Detail, rec.OccurredAt)
	return err
}
