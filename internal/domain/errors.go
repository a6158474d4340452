package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrOnboardingRequired = errors.New("onboarding required")

	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")

	ErrCannotSwipeSelf    = errors.New("cannot swipe yourself")
	ErrSwipeNotFound      = errors.New("swipe not found")
	ErrInvalidSwipeAction = errors.New("invalid swipe action")

	ErrMatchNotFound        = errors.New("match not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a conversation participant")
	ErrEmptyMessage         = errors.New("message body is empty")

	ErrProjectNotFound   = errors.New("project not found")
	ErrNotProjectMember  = errors.New("not a project member")
	ErrNotProjectOwner   = errors.New("not the project owner")
	ErrAlreadyMember     = errors.New("user is already a project member")
	ErrCannotRemoveOwner = errors.New("cannot remove the project owner")

	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrNotCommentAuthor  = errors.New("not the comment author")

	ErrStorageUnavailable = errors.New("file storage is not configured")
)
