package models

// SchoolProfile is the institution singleton. LogoURL holds the encoded
// image payload as an opaque string and must round-trip untouched.
type SchoolProfile struct {
	Name           string   `json:"name"`
	LogoURL        string   `json:"logoUrl,omitempty"`
	ContactNumbers []string `json:"contactNumbers"`
}
