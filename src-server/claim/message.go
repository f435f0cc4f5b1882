package claim

import (
	"errors"
	"fmt"
)

// Message renders a claim outcome the way gate staff see it. Both the
// scanner and the Discord commands use it so the wording stays identical.
func Message(kind string, res *Result, err error) string {
	if reason, ok := DeniedReason(err); ok {
		switch reason {
		case REASON_NOT_FOUND:
			return "User does not exist, please register."
		case REASON_NOT_ENTERED:
			return "Not entered yet"
		case REASON_ALREADY_TAKEN:
			return "Sorry, you took your huddy."
		}
	}
	switch {
	case err == nil && kind == KIND_ENTRY:
		name := ""
		if res != nil {
			name = res.Name
		}
		return fmt.Sprintf("Hey %s, welcome to the event!", name)
	case err == nil && kind == KIND_GIFT:
		return "Get your huddy, enjoy!"
	case errors.Is(err, ErrValidation):
		return "Invalid code, scan again."
	case errors.Is(err, ErrNotFound):
		return "User does not exist, please register."
	default:
		return "Lookup failed, try again."
	}
}
