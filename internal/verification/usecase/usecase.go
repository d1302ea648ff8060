package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/goverid/internal/pkg/clock"
	"github.com/shandysiswandi/goverid/internal/pkg/config"
	"github.com/shandysiswandi/goverid/internal/pkg/crypt"
	"github.com/shandysiswandi/goverid/internal/pkg/goroutine"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"github.com/shandysiswandi/goverid/internal/pkg/otpcode"
	"github.com/shandysiswandi/goverid/internal/pkg/token"
	"github.com/shandysiswandi/goverid/internal/pkg/uid"
	"github.com/shandysiswandi/goverid/internal/pkg/validator"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
	"go.opentelemetry.io/otel/trace"
)

// Store key prefixes. The phone number (or token id) is appended directly;
// every piece of cross-request state self-expires via TTL.
const (
	keyRequests        = "reqs:"
	keyDeadline        = "deadline:"
	keyBan             = "ban:"
	keyChallenge       = "otp:"
	keyChallengeMarker = "otp_request:"
	keyOnboardingToken = "onboardingToken:"
)

// markerRequested is the value stored under the challenge marker key.
const markerRequested = "requested"

// onboardingScopePurpose binds phone ciphertexts to onboarding redemption.
const onboardingScopePurpose = "onboarding-phone"

type PhoneVerifiedEvent struct {
	Phone      string
	TokenID    string
	VerifiedAt time.Time
}

type PhoneBannedEvent struct {
	Phone        string
	RequestCount int64
	BannedUntil  time.Time
}

type repoMessaging interface {
	PublishPhoneVerified(ctx context.Context, msg PhoneVerifiedEvent) error
	PublishPhoneBanned(ctx context.Context, msg PhoneBannedEvent) error
}

// repoKV is the counter store port. Single-key operations are atomic;
// callers never retry on failure, they surface the error.
type repoKV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type repoSMS interface {
	Send(ctx context.Context, phone, body string) error
}

type repoAudit interface {
	Record(ctx context.Context, rec entity.AuditRecord) error
}

type Usecase struct {
	repoKV        repoKV
	repoSMS       repoSMS
	repoMessaging repoMessaging
	repoAudit     repoAudit
	validator     validator.Validator
	cfg           config.Config
	codes         otpcode.Generator
	secret        *otpcode.Secret
	encryptor     crypt.Encryptor
	token         token.Token
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoKV        repoKV
	RepoSMS       repoSMS
	RepoMessaging repoMessaging
	RepoAudit     repoAudit
	Validator     validator.Validator
	Config        config.Config
	Codes         otpcode.Generator
	Secret        *otpcode.Secret
	Encryptor     crypt.Encryptor
	Token         token.Token
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoKV:        dep.RepoKV,
		repoSMS:       dep.RepoSMS,
		repoMessaging: dep.RepoMessaging,
		repoAudit:     dep.RepoAudit,
		validator:     dep.Validator,
		cfg:           dep.Config,
		codes:         dep.Codes,
		secret:        dep.Secret,
		encryptor:     dep.Encryptor,
		token:         dep.Token,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func (s *Usecase) windowTTL() time.Duration {
	return s.cfg.GetHour("modules.verification.window_ttl_hours")
}

// audit appends to the trail without blocking the request path. The write is
// best effort; a lost audit row never fails a verification flow.
func (s *Usecase) audit(ctx context.Context, action entity.AuditAction, phone, detail string) {
	rec := entity.AuditRecord{
		Phone:      phone,
		Action:     action,
		Detail:     detail,
		OccurredAt: s.clock.Now(),
	}

	s.goroutine.Go(context.WithoutCancel(ctx), func(pCtx context.Context) error {
		return s.repoAudit.Record(pCtx, rec)
	})
}
