package events

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/jrsteele09/lankaconnect-client/internal/validation"
	"github.com/jrsteele09/lankaconnect-client/transport"
)

type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentCompleted
	PaymentFailed
	PaymentRefunded
	PaymentNotRequired
)

var paymentStatusNames = []string{"Pending", "Completed", "Failed", "Refunded", "NotRequired"}

func (p PaymentStatus) String() string {
	if int(p) >= 0 && int(p) < len(paymentStatusNames) {
		return paymentStatusNames[p]
	}
	return "PaymentStatus(" + strconv.Itoa(int(p)) + ")"
}

// AgeCategory starts at 1 on the server.
type AgeCategory int

const (
	AgeAdult AgeCategory = iota + 1
	AgeChild
)

type Gender int

const (
	GenderMale Gender = iota + 1
	GenderFemale
	GenderOther
)

var genderNames = []string{"Male", "Female", "Other"}

func (g Gender) String() string {
	if int(g) >= 1 && int(g) <= len(genderNames) {
		return genderNames[g-1]
	}
	return "Gender(" + strconv.Itoa(int(g)) + ")"
}

type AttendeeDetails struct {
	Name        string       `json:"name"`
	AgeCategory *AgeCategory `json:"ageCategory,omitempty"`
	Gender      *Gender      `json:"gender,omitempty"`
}

// EventAttendee is one registration as the organizer sees it.
type EventAttendee struct {
	RegistrationID string             `json:"registrationId"`
	UserID         *string            `json:"userId,omitempty"` // nil for anonymous registrations
	Status         RegistrationStatus `json:"status"`
	PaymentStatus  PaymentStatus      `json:"paymentStatus"`
	CreatedAt      string             `json:"createdAt"`

	ContactEmail   string  `json:"contactEmail"`
	ContactPhone   string  `json:"contactPhone"`
	ContactAddress *string `json:"contactAddress,omitempty"`

	Attendees           []AttendeeDetails `json:"attendees"`
	MainAttendeeName    string            `json:"mainAttendeeName"`
	AdditionalAttendees string            `json:"additionalAttendees,omitempty"` // comma separated
	TotalAttendees      int               `json:"totalAttendees"`
	AdultCount          int               `json:"adultCount"`
	ChildCount          int               `json:"childCount"`
	GenderDistribution  string            `json:"genderDistribution"`

	TotalAmount *float64 `json:"totalAmount,omitempty"`
	NetAmount   *float64 `json:"netAmount,omitempty"`
	Currency    *string  `json:"currency,omitempty"`

	TicketCode *string `json:"ticketCode,omitempty"`
	QRCodeData *string `json:"qrCodeData,omitempty"`
	HasTicket  bool    `json:"hasTicket"`
}

// EventAttendees lists active registrations with the organizer's revenue summary.
// Cancelled and refunded registrations are left out.
type EventAttendees struct {
	EventID            string          `json:"eventId"`
	EventTitle         string          `json:"eventTitle"`
	Attendees          []EventAttendee `json:"attendees"`
	TotalRegistrations int             `json:"totalRegistrations"`
	TotalAttendees     int             `json:"totalAttendees"`

	GrossRevenue     float64 `json:"grossRevenue"`
	CommissionAmount float64 `json:"commissionAmount"`
	NetRevenue       float64 `json:"netRevenue"`
	CommissionRate   float64 `json:"commissionRate"`
	IsFreeEvent      bool    `json:"isFreeEvent"`

	TotalSalesTax           float64 `json:"totalSalesTax"`
	TotalStripeFees         float64 `json:"totalStripeFees"`
	TotalPlatformCommission float64 `json:"totalPlatformCommission"`
	TotalOrganizerPayout    float64 `json:"totalOrganizerPayout"`
	AverageTaxRate          float64 `json:"averageTaxRate"`
	HasRevenueBreakdown     bool    `json:"hasRevenueBreakdown"`
}

// Payout is what the organizer receives: the itemised payout when the server
// has a breakdown, else net revenue.
func (a EventAttendees) Payout() float64 {
	if a.HasRevenueBreakdown {
		return a.TotalOrganizerPayout
	}
	return a.NetRevenue
}

type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "excel"
)

// Extension is the file extension a download in this format should carry.
func (f ExportFormat) Extension() string {
	if f == ExportExcel {
		return "xlsx"
	}
	return "csv"
}

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportExcel:
		return f, nil
	case "xlsx":
		return ExportExcel, nil
	default:
		return "", apierror.NewValidation("Unknown export format "+strconv.Quote(s), map[string][]string{"format": {"format must be csv or excel"}}, nil)
	}
}

// NotificationHistory records one "send event details" email run.
type NotificationHistory struct {
	ID              string `json:"id"`
	EventID         string `json:"eventId"`
	SentByUserID    string `json:"sentByUserId"`
	SentAt          string `json:"sentAt"`
	RecipientCount  int    `json:"recipientCount"`
	SuccessfulSends int    `json:"successfulSends"`
	FailedSends     int    `json:"failedSends"`
}

type reminderRequest struct {
	ReminderType string `json:"reminderType" validate:"required,max=50"`
}

// ==================== Organizer tools ====================

func (r *Repository) GetEventAttendees(ctx context.Context, eventID string) (*EventAttendees, error) {
	var out EventAttendees
	if err := r.api.Get(ctx, eventPath(eventID, "attendees"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportEventAttendees downloads the attendee list. Excel exports add a sheet per sign-up list.
func (r *Repository) ExportEventAttendees(ctx context.Context, eventID string, format ExportFormat) (*transport.Blob, error) {
	q := url.Values{"format": {string(format)}}
	return r.api.Download(ctx, withQuery(eventPath(eventID, "attendees", "export"), q))
}

// SendEventNotification emails the event details to every attendee. The send runs
// in the background on the server; its outcome shows up in the notification history.
func (r *Repository) SendEventNotification(ctx context.Context, eventID string) error {
	return r.api.Post(ctx, eventPath(eventID, "send-notification"), struct{}{}, nil)
}

func (r *Repository) GetEventNotificationHistory(ctx context.Context, eventID string) ([]NotificationHistory, error) {
	var out []NotificationHistory
	err := r.api.Get(ctx, eventPath(eventID, "notification-history"), &out)
	return out, err
}

// SendEventReminder emails a manual reminder of reminderType, e.g. "1day", to registered attendees.
func (r *Repository) SendEventReminder(ctx context.Context, eventID, reminderType string) error {
	req := reminderRequest{ReminderType: strings.TrimSpace(reminderType)}
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Post(ctx, eventPath(eventID, "send-reminder"), req, nil)
}
