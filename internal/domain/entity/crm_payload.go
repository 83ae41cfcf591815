package entity

// CRM action names understood by the chatbot platform.
const (
	ActionSetFieldValue = "set_field_value"
	ActionSendFlow      = "send_flow"
)

// CRM field names written by the funnel.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldFullName  = "full_name"
	FieldBirthday  = "WC_UserBirthday"
)

// CRMAction is one entry of a send-content action list.
type CRMAction struct {
	Action    string `json:"action"`
	FieldName string `json:"field_name,omitempty"`
	Value     string `json:"value,omitempty"`
	FlowID    string `json:"flow_id,omitempty"`
}

// FieldUpdatePayload is the ordered action list pushed to a CRM contact.
type FieldUpdatePayload struct {
	Actions []CRMAction `json:"actions"`
}

// Field returns the value of the set_field_value action for name.
func (p FieldUpdatePayload) Field(name string) (string, bool) {
	for _, a := range p.Actions {
		if a.Action == ActionSetFieldValue && a.FieldName == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasFlow reports whether the payload triggers a remote flow.
func (p FieldUpdatePayload) HasFlow() bool {
	for _, a := range p.Actions {
		if a.Action == ActionSendFlow {
			return true
		}
	}
	return false
}
