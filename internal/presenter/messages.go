package presenter

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Catalog keys
const (
	MsgBookingConfirmed  = "Booking confirmed!"
	MsgBookingCancelled  = "Booking cancelled"
	MsgRefundNotice      = "A refund of %s will be issued."
	MsgParticipants      = "%d participant(s)"
	MsgConfirmationHello = "Hello %s,"
	MsgConfirmationBody  = "Your booking for \"%s\" is confirmed."
	MsgConfirmationDate  = "Date: %s"
	MsgConfirmationTime  = "Time: %s"
	MsgConfirmationTotal = "Total: %s"
	MsgConfirmationRef   = "Reference: %s"
	MsgDefaultGuest      = "guest"
	MsgSmokeTest         = "Booking API is up"
)

func init() {
	fr := language.CanadianFrench
	for key, text := range map[string]string{
		MsgBookingConfirmed:  "Réservation confirmée !",
		MsgBookingCancelled:  "Réservation annulée",
		MsgRefundNotice:      "Un remboursement de %s sera effectué.",
		MsgParticipants:      "%d participant(s)",
		MsgConfirmationHello: "Bonjour %s,",
		MsgConfirmationBody:  "Votre réservation pour « %s » est confirmée.",
		MsgConfirmationDate:  "Date : %s",
		MsgConfirmationTime:  "Heure : %s",
		MsgConfirmationTotal: "Prix total : %s",
		MsgConfirmationRef:   "Référence : %s",
		MsgDefaultGuest:      "client",
		MsgSmokeTest:         "L'API de réservation fonctionne",
	} {
		_ = message.SetString(fr, key, text)
	}
}

// Confirmation holds what the guest-facing confirmation text needs
type Confirmation struct {
	BookingID    string
	GuestName    string
	ServiceName  string
	StartTime    time.Time
	Participants int
	TotalCents   int64
}

// ConfirmationMessage renders the multi-line confirmation shown after booking
func (p *Presenter) ConfirmationMessage(c Confirmation) string {
	name := c.GuestName
	if name == "" {
		name = p.Message(MsgDefaultGuest)
	}

	lines := []string{
		p.Message(MsgBookingConfirmed),
		"",
		p.Message(MsgConfirmationHello, name),
		p.Message(MsgConfirmationBody, c.ServiceName),
		"",
		"- " + p.Message(MsgConfirmationDate, capitalize(p.LongDate(c.StartTime))),
		"- " + p.Message(MsgConfirmationTime, p.Time(c.StartTime)),
		"- " + p.Message(MsgParticipants, c.Participants),
		"- " + p.Message(MsgConfirmationTotal, p.Price(c.TotalCents)),
		"- " + p.Message(MsgConfirmationRef, c.BookingID),
	}
	return strings.Join(lines, "\n")
}
