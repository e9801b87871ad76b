package notify

import "fmt"

const bookingTimeFormat = "Monday, January 2 at 3:04 PM"

func customerEmailSubject(service string) string {
	return fmt.Sprintf("Your %s consultation is booked!", service)
}

func customerEmailBody(b Booking) string {
	return fmt.Sprintf(`Hi %s,

Your consultation is confirmed!

Service: %s
When: %s

If you need to reschedule, just reply to this email.

Talk soon,
Sammy
%s`, firstWord(b.Name), b.Service, b.Start.Format(bookingTimeFormat), b.BusinessName)
}

func customerEmailHTML(b Booking) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #4f46e5;">You're booked! 🎉</h2>
<p>Hi %s, your consultation is confirmed.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Service:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>When:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
</table>
<p>If you need to reschedule, just reply to this email.</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— Sammy, %s</p>
</div>`, firstWord(b.Name), b.Service, b.Start.Format(bookingTimeFormat), b.BusinessName)
}

func businessEmailSubject(b Booking) string {
	return fmt.Sprintf("New booking: %s - %s", b.Service, b.Name)
}

func businessEmailBody(b Booking) string {
	phone := b.Phone
	if phone == "" {
		phone = "not provided"
	}
	return fmt.Sprintf(`Sammy booked a new consultation.

Name: %s
Email: %s
Phone: %s
Service: %s
When: %s

— Sammy`, b.Name, b.Email, phone, b.Service, b.Start.Format(bookingTimeFormat))
}

func customerSMSBody(b Booking) string {
	return fmt.Sprintf("Hi %s! Your %s consultation with %s is confirmed for %s. Reply to this number if you need to reschedule. - Sammy",
		firstWord(b.Name), b.Service, b.BusinessName, b.Start.Format("Mon 1/2 3:04PM"))
}

func businessSMSBody(b Booking) string {
	return fmt.Sprintf("New booking: %s (%s) for %s on %s",
		b.Name, b.Email, b.Service, b.Start.Format("Mon 1/2 3:04PM"))
}

func firstWord(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}
