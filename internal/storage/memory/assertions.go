package memory

import (
	"github.com/tinoosan/social/internal/service/account"
	"github.com/tinoosan/social/internal/service/message"
)

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	_ account.Repo           = (*Store)(nil)
	_ account.Writer         = (*Store)(nil)
	_ message.Repo           = (*Store)(nil)
	_ message.Writer         = (*Store)(nil)
	_ message.AccountChecker = (*Store)(nil)
)
