package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oggyb/lunchmatch/internal/auth"
)

const (
	requestIDHeader     = "x-request-id"
	authorizationHeader = "authorization"
)

// Methods under these prefixes skip authentication.
var publicPrefixes = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.",
}

func isPublic(fullMethod string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(fullMethod, p) {
			return true
		}
	}
	return false
}

// LoggingInterceptor tags every call with a request id (taken from
// x-request-id metadata or generated) and logs its outcome.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(requestIDHeader); len(v) > 0 {
				reqID = v[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, reqID))

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		attrs := []any{"method", info.FullMethod, "request_id", reqID, "code", code.String(), "duration", time.Since(start)}
		switch code {
		case codes.OK:
			log.Debug("grpc call", attrs...)
		case codes.Internal, codes.Unknown:
			log.Error("grpc call", append(attrs, "err", err)...)
		default:
			log.Info("grpc call", append(attrs, "err", err)...)
		}
		return resp, err
	}
}

// AuthInterceptor verifies the bearer token in the authorization metadata
// and stores the identity on the context.
func AuthInterceptor(issuer *auth.Issuer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isPublic(info.FullMethod) {
			return handler(ctx, req)
		}
		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get(authorizationHeader)
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization token")
		}
		id, err := issuer.Parse(values[0])
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(auth.WithIdentity(ctx, id), req)
	}
}
