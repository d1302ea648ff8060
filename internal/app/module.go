package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/goverid/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		if err := verification.New(verification.Dependency{
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			SNSClient:  a.snsClient,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Codes:      a.codes,
			Secret:     a.secret,
			Encryptor:  a.encryptor,
			Token:      a.token,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
	}
}
