package verification

import (
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverid/internal/pkg/clock"
	"github.com/shandysiswandi/goverid/internal/pkg/config"
	"github.com/shandysiswandi/goverid/internal/pkg/crypt"
	"github.com/shandysiswandi/goverid/internal/pkg/goroutine"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"github.com/shandysiswandi/goverid/internal/pkg/messaging"
	"github.com/shandysiswandi/goverid/internal/pkg/otpcode"
	"github.com/shandysiswandi/goverid/internal/pkg/router"
	"github.com/shandysiswandi/goverid/internal/pkg/token"
	"github.com/shandysiswandi/goverid/internal/pkg/uid"
	"github.com/shandysiswandi/goverid/internal/pkg/validator"
	"github.com/shandysiswandi/goverid/internal/verification/inbound"
	"github.com/shandysiswandi/goverid/internal/verification/outbound/db"
	"github.com/shandysiswandi/goverid/internal/verification/outbound/kv"
	"github.com/shandysiswandi/goverid/internal/verification/outbound/mq"
	"github.com/shandysiswandi/goverid/internal/verification/outbound/sms"
	"github.com/shandysiswandi/goverid/internal/verification/usecase"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	SNSClient  *awssns.Client             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Codes      otpcode.Generator          `validate:"required"`
	Secret     *otpcode.Secret            `validate:"required"`
	Encryptor  crypt.Encryptor            `validate:"required"`
	Token      token.Token                `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoKV := kv.NewKV(dep.CacheConn, dep.Instrument)
	repoSMS := sms.NewSNS(dep.SNSClient, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	repoAudit := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoKV:        repoKV,
		RepoSMS:       repoSMS,
		RepoMessaging: repoMsg,
		RepoAudit:     repoAudit,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Codes:         dep.Codes,
		Secret:        dep.Secret,
		Encryptor:     dep.Encryptor,
		Token:         dep.Token,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
