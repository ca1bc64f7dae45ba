package sqlite

import (
	"github.com/tinoosan/social/internal/service/account"
	"github.com/tinoosan/social/internal/service/message"
)

var (
	_ account.Repo           = (*Store)(nil)
	_ account.Writer         = (*Store)(nil)
	_ message.Repo           = (*Store)(nil)
	_ message.Writer         = (*Store)(nil)
	_ message.AccountChecker = (*Store)(nil)
)
