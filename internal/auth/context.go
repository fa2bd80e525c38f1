package auth

import "context"

type contextKey struct{}

// AuthContext identifies the authenticated actor for a request.
// CoupleID is 0 until the user pairs up.
type AuthContext struct {
	UserID    int64
	CoupleID  int64
	SessionID int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

func CoupleID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.CoupleID
}

// Paired reports whether the actor belongs to a couple.
func Paired(ctx context.Context) bool {
	return CoupleID(ctx) != 0
}
