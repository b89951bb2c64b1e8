package prompt

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMissingField is returned when a required request field is blank.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidOption is returned for a value outside an enumerated set.
	ErrInvalidOption = errors.New("invalid option")
)

// DateLayout is the format of request dates and of the date in file names.
const DateLayout = "2006-01-02"

// MeetingRequest collects the parameters of a meeting briefing.
type MeetingRequest struct {
	Organization string      `json:"organization" validate:"required"`
	Date         string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type         MeetingType `json:"type" validate:"omitempty,oneof=mapping panel technical workshop bilateral"`
	Topics       string      `json:"topics" validate:"required"`
	Objectives   string      `json:"objectives"`
	Detail       Detail      `json:"detail" validate:"omitempty,oneof=quick standard complete"`
}

// PanelRequest collects the parameters of a panel preparation.
type PanelRequest struct {
	Title          string `json:"title" validate:"required"`
	Event          string `json:"event"`
	Date           string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Role           Role   `json:"role" validate:"omitempty,oneof=panelist moderator keynote"`
	Topic          string `json:"topic" validate:"required"`
	Duration       int    `json:"duration_minutes" validate:"omitempty,oneof=5 10 15 20"`
	Level          Level  `json:"level" validate:"omitempty,oneof=basic intermediate advanced"`
	Audience       string `json:"audience"`
	OtherPanelists string `json:"other_panelists"`
	KeyMessage     string `json:"key_message"`
}

func (r MeetingRequest) normalized(now time.Time) MeetingRequest {
	r.Organization = strings.TrimSpace(r.Organization)
	r.Date = strings.TrimSpace(r.Date)
	r.Topics = strings.TrimSpace(r.Topics)
	r.Objectives = strings.TrimSpace(r.Objectives)
	if r.Date == "" {
		r.Date = now.Format(DateLayout)
	}
	if r.Type == "" {
		r.Type = MeetingMapping
	}
	if r.Detail == "" {
		r.Detail = DetailStandard
	}
	return r
}

func (r PanelRequest) normalized(now time.Time) PanelRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Event = strings.TrimSpace(r.Event)
	r.Date = strings.TrimSpace(r.Date)
	r.Topic = strings.TrimSpace(r.Topic)
	r.Audience = strings.TrimSpace(r.Audience)
	r.OtherPanelists = strings.TrimSpace(r.OtherPanelists)
	r.KeyMessage = strings.TrimSpace(r.KeyMessage)
	if r.Date == "" {
		r.Date = now.Format(DateLayout)
	}
	if r.Role == "" {
		r.Role = RolePanelist
	}
	if r.Duration == 0 {
		r.Duration = Durations[0]
	}
	if r.Level == "" {
		r.Level = LevelIntermediate
	}
	return r
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check maps validator failures onto ErrMissingField and ErrInvalidOption.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s=%v", fe.Field(), fe.Value()))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOption, strings.Join(invalid, ", "))
}
