package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/goverid/internal/pkg/config"
	"github.com/shandysiswandi/goverid/internal/pkg/crypt"
	"github.com/shandysiswandi/goverid/internal/pkg/goroutine"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"github.com/shandysiswandi/goverid/internal/pkg/otpcode"
	"github.com/shandysiswandi/goverid/internal/pkg/token"
	"github.com/shandysiswandi/goverid/internal/pkg/validator"
	"github.com/shandysiswandi/goverid/internal/verification/entity"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
modules:
  verification:
    otp_length: 6
    otp_ttl_seconds: 180
    request_marker_ttl_seconds: 360
    window_ttl_hours: 24
    max_requests: 3
    cooldown_step_seconds: 30
    onboarding_record_ttl_seconds: 180
`

const testTokenSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[key] = value
	f.ttl[key] = ttl
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, key := range keys {
		delete(f.data, key)
		delete(f.ttl, key)
	}
	return nil
}

func (f *fakeKV) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeKV) Expire(_ context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.ttl[key] = ttl
	return nil
}

func (f *fakeKV) get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeKV) set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

type sentSMS struct {
	phone string
	body  string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) Send(_ context.Context, phone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{phone: phone, body: body})
	return nil
}

func (f *fakeSMS) messages() []sentSMS {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentSMS{}, f.sent...)
}

type fakeMessaging struct {
	mu       sync.Mutex
	verified []PhoneVerifiedEvent
	banned   []PhoneBannedEvent
}

func (f *fakeMessaging) PublishPhoneVerified(_ context.Context, msg PhoneVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, msg)
	return nil
}

func (f *fakeMessaging) PublishPhoneBanned(_ context.Context, msg PhoneBannedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banned = append(f.banned, msg)
	return nil
}

func (f *fakeMessaging) verifiedEvents() []PhoneVerifiedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PhoneVerifiedEvent{}, f.verified...)
}

func (f *fakeMessaging) bannedEvents() []PhoneBannedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PhoneBannedEvent{}, f.banned...)
}

type fakeAudit struct {
	mu   sync.Mutex
	recs []entity.AuditRecord
}

func (f *fakeAudit) Record(_ context.Context, rec entity.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeAudit) records() []entity.AuditRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.AuditRecord{}, f.recs...)
}

func (f *fakeAudit) actions() []entity.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]entity.AuditAction, 0, len(f.recs))
	for _, rec := range f.recs {
		actions = append(actions, rec.Action)
	}
	return actions
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type stubID struct {
	mu sync.Mutex
	n  int
}

func (s *stubID) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", s.n)
}

type testEnv struct {
	uc        *Usecase
	kv        *fakeKV
	sms       *fakeSMS
	messaging *fakeMessaging
	audit     *fakeAudit
	goroutine *goroutine.Manager
	secret    *otpcode.Secret
	token     token.Token
	encryptor crypt.Encryptor
	now       time.Time
}

// drain waits for async audit writes and event publishes to settle.
func (e *testEnv) drain(t *testing.T) {
	t.Helper()
	require.NoError(t, e.goroutine.Wait())
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	// Tokens are verified against real time by the JWT library, so the fixed
	// clock is anchored to the present.
	now := time.Now().Truncate(time.Second)
	clk := fixedClock{now: now}
	ids := &stubID{}

	onboardingToken, err := token.NewHS512(token.Config{
		Secret:    []byte(testTokenSecret),
		Issuer:    "goverid-test",
		Audiences: []string{"onboarding"},
		TTL:       3 * time.Minute,
		Clock:     clk,
		UUID:      ids,
	})
	require.NoError(t, err)

	encryptor := crypt.NewAESGCMEncryptor(crypt.StaticKeyProvider{
		KeyBytes: []byte("0123456789abcdef0123456789abcdef"),
	})

	env := &testEnv{
		kv:        newFakeKV(),
		sms:       &fakeSMS{},
		messaging: &fakeMessaging{},
		audit:     &fakeAudit{},
		goroutine: goroutine.NewManager(10),
		secret:    otpcode.NewSecret("challenge-secret"),
		token:     onboardingToken,
		encryptor: encryptor,
		now:       now,
	}

	env.uc = New(Dependency{
		RepoKV:        env.kv,
		RepoSMS:       env.sms,
		RepoMessaging: env.messaging,
		RepoAudit:     env.audit,
		Validator:     v10,
		Config:        cfg,
		Codes:         otpcode.NewNumeric(6),
		Secret:        env.secret,
		Encryptor:     env.encryptor,
		Token:         onboardingToken,
		UUID:          ids,
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     env.goroutine,
	})

	return env
}
