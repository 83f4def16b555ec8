package battle

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// SubmitBattleInput holds the parameters for submitting a battle.
type SubmitBattleInput struct {
	Category  domain.BossCategory
	Minutes   int
	BookID    *uuid.UUID
	BookTitle *string
}

// Validate checks all fields and collects all errors.
func (i *SubmitBattleInput) Validate(rules domain.BattleRules) error {
	var errs []domain.FieldError

	if !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "must be CULTIVATION, GAMELIT, APOCALYPSE, or PORTAL"})
	}
	if i.Minutes <= 0 {
		errs = append(errs, domain.FieldError{Field: "minutes", Message: "must be positive"})
	} else if i.Minutes > rules.MaxMinutesPerSubmit {
		errs = append(errs, domain.FieldError{Field: "minutes", Message: fmt.Sprintf("max %d per submission", rules.MaxMinutesPerSubmit)})
	}
	if i.BookTitle != nil && len(*i.BookTitle) > 500 {
		errs = append(errs, domain.FieldError{Field: "book_title", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetStoryInput holds the parameters for fetching a boss's battle story.
type GetStoryInput struct {
	Category domain.BossCategory
	Limit    int
}

// Validate checks all fields and collects all errors.
func (i *GetStoryInput) Validate() error {
	var errs []domain.FieldError

	if !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "must be CULTIVATION, GAMELIT, APOCALYPSE, or PORTAL"})
	}
	if i.Limit < 0 || i.Limit > 500 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 500"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
