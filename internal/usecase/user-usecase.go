package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamvkosarev/reply-genie-bot/config"
	"github.com/iamvkosarev/reply-genie-bot/internal/model"
)

type UserUsecaseDeps struct {
	DraftStorage DraftStorage
}

type UserUsecase struct {
	UserUsecaseDeps
	telegramCfg config.Telegram
}

func NewUserUsecase(deps UserUsecaseDeps, telegramCfg config.Telegram) *UserUsecase {
	return &UserUsecase{
		UserUsecaseDeps: deps,
		telegramCfg:     telegramCfg,
	}
}

// DraftForTelegramUser returns the user's current draft, creating and binding
// a fresh one on first contact or after the previous one expired.
func (u *UserUsecase) DraftForTelegramUser(ctx context.Context, userTelegramID int64) (model.Draft, error) {
	draftID, err := u.DraftStorage.GetDraftIDForTelegramUser(ctx, userTelegramID)
	if err == nil {
		draft, err := u.DraftStorage.GetDraft(ctx, draftID)
		if err == nil {
			return draft, nil
		}
		if !errors.Is(err, model.ErrDraftDoesNotExist) {
			return model.Draft{}, fmt.Errorf("failed to get draft %s: %w", draftID, err)
		}
	} else if !errors.Is(err, model.ErrTelegramUserDoesNotExists) {
		return model.Draft{}, fmt.Errorf("failed to get draft id for telegram user: %w", err)
	}

	draft, err := u.DraftStorage.CreateDraft(ctx)
	if err != nil {
		return model.Draft{}, fmt.Errorf("failed to create draft: %w", err)
	}
	if err = u.DraftStorage.BindTelegramUser(ctx, userTelegramID, draft.DraftID); err != nil {
		return model.Draft{}, fmt.Errorf("failed to bind telegram user: %w", err)
	}
	return draft, nil
}

func (u *UserUsecase) GetUserRole(userTelegramID int64) model.UserRole {
	for _, userWithRoleID := range u.telegramCfg.AdminTelegramIDList {
		if userWithRoleID == userTelegramID {
			return model.UserRoleAdmin
		}
	}
	for _, userWithRoleID := range u.telegramCfg.PremiumTelegramIDList {
		if userWithRoleID == userTelegramID {
			return model.UserRolePremium
		}
	}
	return model.UserRoleDefault
}

// HasAccess reports whether the user may talk to the bot at all.
func (u *UserUsecase) HasAccess(userTelegramID int64) bool {
	if !u.telegramCfg.IsNotPublic {
		return true
	}
	return u.GetUserRole(userTelegramID) != model.UserRoleDefault
}

func (u *UserUsecase) CanUseCustomTone(userTelegramID int64) bool {
	return u.GetUserRole(userTelegramID).CanUseCustomTone(u.telegramCfg.CustomTonePremiumOnly)
}
