// Package interceptors holds the unary gRPC interceptors of the provenance
// service: caller resolution, request metrics and request logging.
package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
	"github.com/louisbranch/provenance/internal/platform/requestctx"
	"github.com/louisbranch/provenance/internal/services/provenance/callertoken"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
)

const (
	// AuthorizationHeader carries "Bearer <caller token>".
	AuthorizationHeader = "authorization"
	// PrincipalHeader names the caller directly. Only trusted deployments
	// enable it.
	PrincipalHeader = "x-provenance-principal"
	// LocaleHeader selects the language of error messages.
	LocaleHeader = "accept-language"
)

// CallerResolver extracts the caller principal from request metadata. It
// reports false when the request carries no credentials it understands.
type CallerResolver interface {
	ResolveCaller(md metadata.MD) (principal.Principal, bool, error)
}

// TokenResolver verifies bearer caller tokens.
type TokenResolver struct {
	Config callertoken.VerifierConfig
}

// ResolveCaller implements CallerResolver.
func (r TokenResolver) ResolveCaller(md metadata.MD) (principal.Principal, bool, error) {
	value := firstValue(md, AuthorizationHeader)
	if value == "" {
		return "", false, nil
	}
	token, ok := strings.CutPrefix(value, "Bearer ")
	if !ok {
		return "", true, apperrors.New(apperrors.CodeUnauthenticated, "authorization must be a bearer token")
	}
	caller, err := callertoken.Verify(token, r.Config)
	return caller, true, err
}

// HeaderResolver trusts the principal header as sent.
type HeaderResolver struct{}

// ResolveCaller implements CallerResolver.
func (HeaderResolver) ResolveCaller(md metadata.MD) (principal.Principal, bool, error) {
	value := firstValue(md, PrincipalHeader)
	if value == "" {
		return "", false, nil
	}
	caller, err := principal.Parse(value)
	return caller, true, err
}

// CallerInterceptor stores the request locale and the first resolved caller
// principal in context. Requests without credentials pass through anonymous;
// invalid credentials are rejected.
func CallerInterceptor(resolvers ...CallerResolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		locale := firstValue(md, LocaleHeader)
		if locale != "" {
			ctx = requestctx.WithLocale(ctx, locale)
		}
		for _, resolver := range resolvers {
			caller, ok, err := resolver.ResolveCaller(md)
			if err != nil {
				return nil, apperrors.HandleError(err, locale)
			}
			if ok {
				ctx = requestctx.WithPrincipal(ctx, caller.String())
				break
			}
		}
		return handler(ctx, req)
	}
}

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
