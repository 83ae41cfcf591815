package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
)

// BirthdayYear is a placeholder; only month and day of a birthday are meaningful.
const BirthdayYear = 1980

// MonthNumber returns the 1-based month for name, or 0 when name is not one of
// entity.BirthMonths. Matching is case-sensitive.
func MonthNumber(name string) int {
	for i, m := range entity.BirthMonths {
		if m == name {
			return i + 1
		}
	}
	return 0
}

// BuildBirthday returns "1980-MM-DD", or "" when either part is absent or unusable.
func BuildBirthday(month, day string, logger *logrus.Logger) string {
	if month == "" || day == "" {
		return ""
	}
	m := MonthNumber(month)
	if m == 0 {
		if logger != nil {
			logger.WithField("birth_month", month).Warn("unknown birth month, birthday dropped")
		}
		return ""
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || d < 1 || d > 31 {
		if logger != nil {
			logger.WithField("birth_day", day).Warn("invalid birth day, birthday dropped")
		}
		return ""
	}
	return fmt.Sprintf("%d-%02d-%02d", BirthdayYear, m, d)
}

// BuildFieldUpdatePayload lists one set_field_value action per populated field,
// then send_flow when flowID is set.
func BuildFieldUpdatePayload(rec *entity.UserRecord, birthday, flowID string) entity.FieldUpdatePayload {
	var actions []entity.CRMAction
	set := func(field, value string) {
		if value == "" {
			return
		}
		actions = append(actions, entity.CRMAction{Action: entity.ActionSetFieldValue, FieldName: field, Value: value})
	}

	set(entity.FieldFirstName, rec.FirstName)
	set(entity.FieldLastName, rec.LastName)
	set(entity.FieldEmail, rec.Email)
	set(entity.FieldPhone, entity.NormalizePhone(rec.Phone))
	set(entity.FieldFullName, rec.FullName())
	set(entity.FieldBirthday, birthday)

	if flowID != "" {
		actions = append(actions, entity.CRMAction{Action: entity.ActionSendFlow, FlowID: flowID})
	}
	return entity.FieldUpdatePayload{Actions: actions}
}
