package batch

import (
	"fmt"

	"github.com/ZdruzenieSTROM/faktury/internal/model"
)

// Validate checks the whole batch before any remote call. Rules run in a
// fixed order and the first failure is returned as *model.ValidationError.
func Validate(b *model.Batch) error {
	cfg := b.Config

	if cfg.DateDue == "" {
		return model.NewValidationError("date_due", "", "due date is not set")
	}
	if cfg.DateDelivery == "" {
		return model.NewValidationError("date_delivery", "", "delivery date is not set")
	}

	issue, err := model.ParseDate(cfg.DateIssue)
	if err != nil {
		return model.NewValidationError("date_issue", "", err.Error())
	}
	due, err := model.ParseDate(cfg.DateDue)
	if err != nil {
		return model.NewValidationError("date_due", "", err.Error())
	}
	if _, err := model.ParseDate(cfg.DateDelivery); err != nil {
		return model.NewValidationError("date_delivery", "", err.Error())
	}
	if issue.After(due) {
		return model.NewValidationError("date_issue", "",
			fmt.Sprintf("issue date %s is later than due date %s", cfg.DateIssue, cfg.DateDue))
	}

	for i, c := range b.Customers {
		if err := validateCustomer(c, i, cfg.DateIssue); err != nil {
			return err
		}
	}
	return nil
}

func validateCustomer(c model.Customer, index int, dateIssue string) error {
	name := c.Name()
	if name == "" {
		return model.NewValidationError(model.FieldName, fmt.Sprintf("row %d", index+1), "customer has no name")
	}

	paid := c.DatePaid()
	if c.MarkedPaid() && paid == "" {
		return model.NewValidationError(model.FieldDatePaid, name, "invoice is marked paid but has no paid date")
	}
	if paid == "" {
		return nil
	}

	paidAt, err := model.ParseDate(paid)
	if err != nil {
		return model.NewValidationError(model.FieldDatePaid, name, err.Error())
	}
	issue, err := model.ParseDate(dateIssue)
	if err != nil {
		return model.NewValidationError("date_issue", "", err.Error())
	}
	if paidAt.After(issue) {
		return model.NewValidationError(model.FieldDatePaid, name,
			fmt.Sprintf("paid date %s is later than issue date %s", paid, dateIssue))
	}
	return nil
}
