package doctor

import "context"

// CredentialsCheck reports whether a Gemini API key is configured. Without
// one only --mistakes grading works, so a missing key is a warning.
type CredentialsCheck struct {
	apiKey string
}

// NewCredentialsCheck creates a credentials check for apiKey.
func NewCredentialsCheck(apiKey string) *CredentialsCheck {
	return &CredentialsCheck{apiKey: apiKey}
}

func (c *CredentialsCheck) Name() string {
	return "Gemini"
}

func (c *CredentialsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.apiKey == "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "api key",
			Status: StatusWarn,
			Detail: "GEMINI_API_KEY is not set, only --mistakes grading is available",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "api key",
		Status: StatusPass,
		Detail: mask(c.apiKey),
	})
	return result
}

// mask keeps the last four characters of a secret.
func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
