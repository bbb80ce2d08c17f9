package auth

import (
	"context"

	"go-ticket-marketplace/internal/model"
	apperrors "go-ticket-marketplace/pkg/app_errors"
)

// Verifier 是宿主環境注入的身分證明能力。
// 核心不做任何密碼學驗證，只在變更狀態前呼叫它。
type Verifier interface {
	Verify(ctx context.Context, caller model.Principal) bool
}

// VerifierFunc 讓函式直接當 Verifier 使用
type VerifierFunc func(ctx context.Context, caller model.Principal) bool

func (f VerifierFunc) Verify(ctx context.Context, caller model.Principal) bool {
	return f(ctx, caller)
}

// TrustingVerifier 信任所有非空的 caller。
// 用在 HTTP 部署：JWT middleware 已經驗證過 token，caller 即 sub claim。
func TrustingVerifier() Verifier {
	return VerifierFunc(func(ctx context.Context, caller model.Principal) bool {
		return caller != ""
	})
}

// Guard 在每次具名授權的狀態變更前把關，純謂詞、無副作用。
type Guard struct {
	verifier Verifier
}

func NewGuard(verifier Verifier) *Guard {
	return &Guard{verifier: verifier}
}

// Authenticate 確認 caller 能證明自己控制該 principal
func (g *Guard) Authenticate(ctx context.Context, caller model.Principal) error {
	if caller == "" || !g.verifier.Verify(ctx, caller) {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// Require 確認 caller 通過驗證且正是 expected 本人
func (g *Guard) Require(ctx context.Context, caller, expected model.Principal) error {
	if err := g.Authenticate(ctx, caller); err != nil {
		return err
	}
	if caller != expected {
		return apperrors.ErrUnauthorized
	}
	return nil
}
