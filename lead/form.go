package lead

import (
	"encoding/json"
	"net/url"
)

// Form field names as posted by the capture form.
const (
	FieldFirstName    = "FirstName"
	FieldLastName     = "LastName"
	FieldEmail        = "Email"
	FieldDescription  = "Description"
	FieldPhone        = "Phone"
	FieldStreet       = "Street"
	FieldCity         = "City"
	FieldState        = "State"
	FieldPostalCode   = "PostalCode"
	FieldCaptchaToken = "g-recaptcha-response"
)

// DefaultLeadSource is used when no lead source is configured.
const DefaultLeadSource = "Email Signup Request"

// Form is one submission of the capture form.
type Form struct {
	FirstName    string
	LastName     string
	Email        string
	Description  string
	Phone        string
	Street       string
	City         string
	State        string
	PostalCode   string
	CaptchaToken string
}

// FormFromValues reads a Form from decoded form values.
func FormFromValues(v url.Values) Form {
	return Form{
		FirstName:    v.Get(FieldFirstName),
		LastName:     v.Get(FieldLastName),
		Email:        v.Get(FieldEmail),
		Description:  v.Get(FieldDescription),
		Phone:        v.Get(FieldPhone),
		Street:       v.Get(FieldStreet),
		City:         v.Get(FieldCity),
		State:        v.Get(FieldState),
		PostalCode:   v.Get(FieldPostalCode),
		CaptchaToken: v.Get(FieldCaptchaToken),
	}
}

// Payload is the JSON document sent to the lead API.
type Payload struct {
	FirstName    string `json:"FirstName"`
	LastName     string `json:"LastName"`
	Email        string `json:"Email"`
	Description  string `json:"Description"`
	Phone        string `json:"Phone"`
	Street       string `json:"Street"`
	City         string `json:"City"`
	State        string `json:"State"`
	PostalCode   string `json:"PostalCode"`
	LeadSource   string `json:"LeadSource"`
	Company      string `json:"Company"`
	RecordTypeID string `json:"RecordTypeId,omitempty"`
}

// Account holds the submission settings that are the same for every lead.
type Account struct {
	Company      string
	LeadSource   string
	RecordTypeID string
}

// NewPayload builds the lead payload. Company is the submitter's name
// followed by the configured company.
func NewPayload(f Form, acct Account) Payload {
	source := acct.LeadSource
	if source == "" {
		source = DefaultLeadSource
	}
	return Payload{
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Email:        f.Email,
		Description:  f.Description,
		Phone:        f.Phone,
		Street:       f.Street,
		City:         f.City,
		State:        f.State,
		PostalCode:   f.PostalCode,
		LeadSource:   source,
		Company:      f.FirstName + " " + f.LastName + " " + acct.Company,
		RecordTypeID: acct.RecordTypeID,
	}
}

// Encode returns the JSON form of p.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}
