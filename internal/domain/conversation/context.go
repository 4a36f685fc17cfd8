package conversation

import (
	"errors"
	"fmt"
	"time"

	"tablebook/internal/domain/booking"
	"tablebook/internal/domain/policy"
)

var (
	ErrPastDate          = errors.New("booking date cannot be in the past")
	ErrDateBeyondHorizon = errors.New("booking date is beyond the booking window")
	ErrContextIncomplete = errors.New("required booking fields are missing")
)

// Context is the mutable record of one conversation. Each field stays nil
// until collected. Only the Engine mutates it, so every write goes through
// validate before it sticks.
type Context struct {
	state           State
	date            *time.Time
	at              *policy.TimeOfDay
	partySize       *int
	name            *string
	phone           *string
	email           *string
	specialRequests *string
}

func NewContext() *Context {
	return &Context{state: StateGreeting}
}

func (c *Context) State() State { return c.state }

func (c *Context) Date() *time.Time          { return c.date }
func (c *Context) Time() *policy.TimeOfDay   { return c.at }
func (c *Context) PartySize() *int           { return c.partySize }
func (c *Context) Name() *string             { return c.name }
func (c *Context) Phone() *string            { return c.phone }
func (c *Context) Email() *string            { return c.email }
func (c *Context) SpecialRequests() *string  { return c.specialRequests }

func (c *Context) CollectedFields() []Field {
	var collected []Field
	for _, f := range requiredFields {
		if c.fieldSet(f) {
			collected = append(collected, f)
		}
	}
	return collected
}

// MissingFields preserves the canonical collection order.
func (c *Context) MissingFields() []Field {
	var missing []Field
	for _, f := range requiredFields {
		if !c.fieldSet(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func (c *Context) IsComplete() bool {
	return len(c.MissingFields()) == 0
}

// BookingRequest assembles the completed intent for the booking engine.
func (c *Context) BookingRequest() (booking.Request, error) {
	if missing := c.MissingFields(); len(missing) > 0 {
		return booking.Request{}, fmt.Errorf("%w: %v", ErrContextIncomplete, missing)
	}
	req := booking.Request{
		Date:          *c.date,
		At:            *c.at,
		PartySize:     *c.partySize,
		CustomerName:  *c.name,
		CustomerPhone: *c.phone,
	}
	if c.email != nil {
		req.CustomerEmail = *c.email
	}
	if c.specialRequests != nil {
		req.SpecialRequests = *c.specialRequests
	}
	return req, nil
}

func (c *Context) fieldSet(f Field) bool {
	v, _ := c.fieldValue(f)
	return v != nil
}

// fieldValue returns the current value boxed as any (nil when unset) and
// whether the field name is known.
func (c *Context) fieldValue(f Field) (any, bool) {
	switch f {
	case FieldDate:
		if c.date == nil {
			return nil, true
		}
		return *c.date, true
	case FieldTime:
		if c.at == nil {
			return nil, true
		}
		return *c.at, true
	case FieldPartySize:
		if c.partySize == nil {
			return nil, true
		}
		return *c.partySize, true
	case FieldName:
		if c.name == nil {
			return nil, true
		}
		return *c.name, true
	case FieldPhone:
		if c.phone == nil {
			return nil, true
		}
		return *c.phone, true
	case FieldEmail:
		if c.email == nil {
			return nil, true
		}
		return *c.email, true
	case FieldSpecialRequests:
		if c.specialRequests == nil {
			return nil, true
		}
		return *c.specialRequests, true
	default:
		return nil, false
	}
}

// setFieldValue assigns a boxed value. A nil value clears the field, which
// is how updateField reverts a failed write.
func (c *Context) setFieldValue(f Field, v any) error {
	if v == nil {
		switch f {
		case FieldDate:
			c.date = nil
		case FieldTime:
			c.at = nil
		case FieldPartySize:
			c.partySize = nil
		case FieldName:
			c.name = nil
		case FieldPhone:
			c.phone = nil
		case FieldEmail:
			c.email = nil
		case FieldSpecialRequests:
			c.specialRequests = nil
		default:
			return fmt.Errorf("unknown field: %s", f)
		}
		return nil
	}

	switch f {
	case FieldDate:
		d, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("field %s expects a date", f)
		}
		normalized := policy.DateOf(d)
		c.date = &normalized
	case FieldTime:
		t, ok := v.(policy.TimeOfDay)
		if !ok {
			return fmt.Errorf("field %s expects a time of day", f)
		}
		c.at = &t
	case FieldPartySize:
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("field %s expects an integer", f)
		}
		c.partySize = &n
	case FieldName, FieldPhone, FieldEmail, FieldSpecialRequests:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %s expects a string", f)
		}
		switch f {
		case FieldName:
			c.name = &s
		case FieldPhone:
			c.phone = &s
		case FieldEmail:
			c.email = &s
		case FieldSpecialRequests:
			c.specialRequests = &s
		}
	default:
		return fmt.Errorf("unknown field: %s", f)
	}
	return nil
}

// validate is the single pure validation pass run after every mutation. It
// checks every invariant from the data model, not just the touched field.
func (c *Context) validate(now time.Time, cfg *policy.Config) error {
	today := policy.DateOf(now)

	if c.date != nil {
		// Wire dates arrive as UTC midnight; anchor the calendar day in
		// the clock's location before comparing instants.
		date := policy.DateIn(*c.date, now.Location())
		if date.Before(today) {
			return ErrPastDate
		}
		if date.After(cfg.LastBookableDate(today)) {
			return fmt.Errorf("%w (%d days)", ErrDateBeyondHorizon, cfg.HorizonDays())
		}
	}
	if c.partySize != nil {
		if *c.partySize < 1 {
			return booking.ErrPartySizeTooSmall
		}
		if *c.partySize > cfg.MaxPartySize() {
			return fmt.Errorf("%w (max %d)", booking.ErrPartySizeTooLarge, cfg.MaxPartySize())
		}
	}
	if c.name != nil {
		if _, err := booking.NewCustomerName(*c.name); err != nil {
			return err
		}
	}
	if c.phone != nil {
		if _, err := booking.NewPhone(*c.phone); err != nil {
			return err
		}
	}
	if c.email != nil {
		if _, _, err := booking.NewEmail(*c.email); err != nil {
			return err
		}
	}
	return nil
}
