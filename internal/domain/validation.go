package domain

import (
	"fmt"

	"github.com/spec-kit/helpdesk-core/pkg/util"
)

func errTitleLength(got int) error {
	return util.NewInvalidInput(
		fmt.Sprintf("title must be between %d and %d characters", TitleMinLen, TitleMaxLen),
		map[string]any{"length": got})
}

func errDescriptionLength(got int) error {
	return util.NewInvalidInput(
		fmt.Sprintf("description must be between %d and %d characters", DescriptionMinLen, DescriptionMaxLen),
		map[string]any{"length": got})
}

func errUnknownCategory(category TicketCategory) error {
	return util.NewInvalidInput("unknown ticket category",
		map[string]any{"category": string(category)})
}

func errMissingCreator() error {
	return util.NewInvalidInput("creator reference is required", nil)
}

func errRatingValue(value int) error {
	return util.NewInvalidInput("rating value must be an integer between 1 and 5",
		map[string]any{"value": value})
}

func errRatingComment(got int) error {
	return util.NewInvalidInput(
		fmt.Sprintf("rating comment must not exceed %d characters", RatingCommentMaxLen),
		map[string]any{"length": got})
}

func errComplaintDescription() error {
	return util.NewInvalidInput("complaint description is required", nil)
}

func errUnknownComplaintCategory(category ComplaintCategory) error {
	return util.NewInvalidInput("unknown complaint category",
		map[string]any{"category": string(category)})
}
