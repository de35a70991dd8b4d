package render

// User-facing notice keys.
const (
	MsgSessionExpired    = "Session Expired"
	MsgSubmissionSuccess = "Submission Success"
	MsgCheckInbox        = "Check Inbox"
	MsgInvalidInput      = "Invalid Input"
	MsgStoreError        = "Store Error"
	MsgTryAgain          = "Error retrieving data. Please try again."
)

var hausa = map[string]string{
	MsgSessionExpired:    "Zaman ya kare. Da fatan za a sake farawa.",
	MsgSubmissionSuccess: "An karbi bayanan ku cikin nasara.",
	MsgCheckInbox:        "Duba akwatin sakonku don rahoto.",
	MsgInvalidInput:      "Bayanin da aka shigar ba daidai ba ne.",
	MsgStoreError:        "An samu matsala wajen adana bayanai.",
	MsgTryAgain:          "An samu kuskure. Da fatan za a sake gwadawa.",
}

// Translate maps a notice key to the requested language. Unknown keys and
// languages fall back to the key itself, which is the English text.
func Translate(language, key string) string {
	if language == "ha" {
		if out, ok := hausa[key]; ok {
			return out
		}
	}
	return key
}
