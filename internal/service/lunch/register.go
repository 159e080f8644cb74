package lunch

import (
	"google.golang.org/grpc"

	"github.com/oggyb/lunchmatch/internal/app"
	pb "github.com/oggyb/lunchmatch/internal/proto/lunch"
)

// Registrar ties the Lunch service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Lunch service implementation to s
func (r *Registrar) Register(s grpc.ServiceRegistrar) {
	pb.RegisterLunchServiceServer(s, NewLunchService(r.appCtx))
}
