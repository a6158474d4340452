package domain

import "fmt"

// FlowStage names a step of the swipe/match flow.
type FlowStage string

const (
	StageSwipeInsert        FlowStage = "swipe_insert"
	StageMatchQuery         FlowStage = "match_query"
	StageMatchInsert        FlowStage = "match_insert"
	StageConversationInsert FlowStage = "conversation_insert"
)

// FlowError reports which step of the swipe/match flow failed.
type FlowError struct {
	Stage FlowStage
	Err   error
}

func NewFlowError(stage FlowStage, err error) *FlowError {
	return &FlowError{Stage: stage, Err: err}
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}
