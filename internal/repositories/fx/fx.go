package fx

import (
	"github.com/orgball2608/insta-stories-viewer/internal/repositories/users"
	"go.uber.org/fx"
)

var Module = fx.Options(
	users.Module,
)
