// Package points manages the award table and balance updates for user points.
package points

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"kuyou/internal/models"
)

// Action identifies a point-earning event.
type Action string

const (
	PostCreated        Action = "post_created"
	SympathyGiven      Action = "sympathy_given"
	SympathyReceived   Action = "sympathy_received"
	ReplyCreated       Action = "reply_created"
	BestAnswerSelected Action = "best_answer_selected"
	BestAnswerReceived Action = "best_answer_received"
)

// amounts is the canonical award table. Balances only ever increase;
// there is no clawback action.
var amounts = map[Action]int{
	PostCreated:        10,
	SympathyGiven:      0,
	SympathyReceived:   1,
	ReplyCreated:       5,
	BestAnswerSelected: 50,
	BestAnswerReceived: 30,
}

// Amount returns the default award for an action, or 0 for an unknown one.
func Amount(action Action) int {
	return amounts[action]
}

// Ledger applies point awards to user balances. Award must run inside
// the same transaction as the event that earned the points.
type Ledger struct{}

// NewLedger returns a points ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Award credits the default amount for action to the user and returns
// what was credited. A zero-amount action performs no write.
func (l *Ledger) Award(ctx context.Context, tx *gorm.DB, userID uint, action Action) (int, error) {
	amount, ok := amounts[action]
	if !ok {
		return 0, fmt.Errorf("unknown points action %q", action)
	}
	return l.AwardAmount(ctx, tx, userID, action, amount)
}

// AwardAmount credits an explicit amount for action, overriding the
// default table. Negative amounts are rejected.
func (l *Ledger) AwardAmount(ctx context.Context, tx *gorm.DB, userID uint, action Action, amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("points award for %q cannot be negative", action)
	}
	if amount == 0 {
		return 0, nil
	}

	result := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, models.NewNotFoundError("User", userID)
	}

	return amount, nil
}
