// Package di contains dependency injection tokens for the feedback context.
package di

import (
	"github.com/fd1az/campus-rewards/business/feedback/app"
	"github.com/fd1az/campus-rewards/business/feedback/infra/kvrepo"
	"github.com/fd1az/campus-rewards/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Service = di.NewToken[*app.Service]("feedback.Service")
)

// Private dependency tokens - internal to feedback module
var (
	Repository = di.NewToken[*kvrepo.Repository]("feedback:repository")
)

func GetService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, Service)
}

func GetRepository(c di.ServiceRegistry) *kvrepo.Repository {
	return di.GetToken(c, Repository)
}
