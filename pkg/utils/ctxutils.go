package utils

import (
	"context"

	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserEmailFromCtx(ctx context.Context) (string, error) {
	email, ok := ctx.Value(contextkeys.UserEmailKey).(string)
	if !ok || email == "" {
		return "", apperrors.ErrUserIDNotFoundInContext
	}
	return email, nil
}
