package httperr

var messages = map[string]string{
	"invalid_request":        "Request body or parameters are invalid.",
	"invalid_phone":          "Phone number must be in the format +250XXXXXXXXX.",
	"invalid_priority":       "Priority is out of range.",
	"invalid_id":             "Identifier is invalid.",
	"invalid_date":           "Date must be formatted as YYYY-MM-DD.",
	"service_not_found":      "Service not found.",
	"organization_missing":   "Organization does not exist.",
	"organization_exists":    "An organization with this name already exists.",
	"organization_not_found": "Organization not found.",
	"provider_not_found":     "No provider profile is linked to this account.",
	"provider_inactive":      "Provider account is inactive.",
	"ticket_not_found":       "Ticket not found.",
	"queue_empty":            "No one is waiting in the queue.",
	"already_serving":        "A ticket is already being served. Complete or skip it first.",
	"invalid_state":          "Ticket cannot change to the requested status.",
	"username_taken":         "Username is already in use.",
	"user_not_found":         "User not found.",
	"cannot_delete_self":     "You cannot delete your own account.",
	"forbidden":              "You do not have permission to perform this action.",
	"queue_number_exhausted": "Could not allocate a queue number, try again.",
	"internal_error":         "Something went wrong, try again later.",
}

// MessageFor returns the user-facing text for code, falling back to the code.
func MessageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}
