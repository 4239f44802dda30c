package kyc

// Update is the admin edit payload: the same three sections the
// registration collects, plus the registration status the admin controls.
type Update struct {
	Registration
	RegistrationStatus string `json:"registration_status"`
}
