package domain

import (
	"time"

	"github.com/google/uuid"
)

type SwipeAction string

const (
	SwipeActionLike      SwipeAction = "like"
	SwipeActionPass      SwipeAction = "pass"
	SwipeActionSuperLike SwipeAction = "super_like"
)

func (a SwipeAction) Valid() bool {
	switch a {
	case SwipeActionLike, SwipeActionPass, SwipeActionSuperLike:
		return true
	}
	return false
}

// IsPositive reports whether the action can complete a match.
func (a SwipeAction) IsPositive() bool {
	return a == SwipeActionLike || a == SwipeActionSuperLike
}

type Swipe struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	SwiperID  uuid.UUID   `json:"swiper_id" db:"swiper_id"`
	SwipedID  uuid.UUID   `json:"swiped_id" db:"swiped_id"`
	Action    SwipeAction `json:"action" db:"action"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// PairState is the interaction state of an unordered user pair.
type PairState string

const (
	PairStateNoInteraction PairState = "no_interaction"
	PairStateOneSidedLike  PairState = "one_sided_like"
	PairStateMatched       PairState = "matched"
)
