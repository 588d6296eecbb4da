package services

import "fmt"

// Caller-facing messages. These never carry diagnostic detail.

func ValidationMessage(name string) string {
	return fmt.Sprintf("Hi %s. Please provide an email, preferred date (YYYY-MM-DD), and time of day (morning or afternoon).", name)
}

func NoAvailabilityMessage(name, bucket, date string) string {
	return fmt.Sprintf("Hi %s. Sorry, there are no available %s slots on %s. Please try another date or time.", name, bucket, date)
}

func ProposalMessage(name, date, formattedTime, zoneLabel string) string {
	return fmt.Sprintf("Hi %s. I found an available time on %s at %s (%s). Please confirm if this works or choose another time.", name, date, formattedTime, zoneLabel)
}

func FailureMessage(name string) string {
	return fmt.Sprintf("Sorry, %s, something went wrong while checking availability.", name)
}
