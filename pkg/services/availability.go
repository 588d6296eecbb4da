package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"appointment-tool/pkg/clients/calcom"
	"appointment-tool/pkg/config"
	"appointment-tool/pkg/models"
	"appointment-tool/pkg/utils"
)

const (
	dateLayout        = "2006-01-02"
	displayTimeLayout = "3:04 PM"
)

// ErrValidation marks a booking request that is missing or has unusable
// required fields. No outbound call is made for such requests.
var ErrValidation = errors.New("invalid booking request")

// AvailabilityResult describes a successful lookup. Found is false when no
// slot matched; that is a normal outcome, not an error.
type AvailabilityResult struct {
	Found         bool
	Slot          time.Time
	FormattedTime string
	Message       string
}

// AvailabilityService defines the interface for checking proposed booking times
type AvailabilityService interface {
	CheckAvailability(ctx context.Context, req models.BookingRequest) (*AvailabilityResult, error)
}

type availabilityServiceImpl struct {
	calcomClient calcom.Client
	config       *config.Config
	logger       *zap.Logger
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(calcomClient calcom.Client, cfg *config.Config, logger *zap.Logger) AvailabilityService {
	return &availabilityServiceImpl{
		calcomClient: calcomClient,
		config:       cfg,
		logger:       logger,
	}
}

// CheckAvailability validates the request, fetches the day's slots and
// proposes the first one inside the requested bucket.
func (s *availabilityServiceImpl) CheckAvailability(ctx context.Context, req models.BookingRequest) (*AvailabilityResult, error) {
	name := req.DisplayName()
	date := strings.TrimSpace(req.PreferredDate)

	if missing := req.MissingFields(); len(missing) > 0 {
		s.logger.Info("Missing required fields", zap.Strings("missing", missing))
		return nil, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	bucket, err := models.ParseTimeBucket(req.PreferredTime)
	if err != nil {
		s.logger.Info("Rejected time of day", zap.String("preferred_time", req.PreferredTime))
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	start, end, err := QueryWindow(date)
	if err != nil {
		s.logger.Info("Rejected preferred date", zap.String("preferred_date", date))
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.logger.Info("Checking availability",
		zap.String("preferred_date", date),
		zap.String("preferred_time", bucket.Name),
		zap.String("email_hash", utils.HashEmail(req.Email)),
		zap.String("topic", req.TopicOrDefault()))

	slotsByDate, err := s.calcomClient.GetAvailableSlots(ctx, start, end)
	if err != nil {
		s.logUpstreamError(err)
		return nil, fmt.Errorf("error checking availability: %w", err)
	}

	for i, slot := range slotsByDate[date] {
		if slot.Time.IsZero() {
			err := fmt.Errorf("slot %d on %s has no time", i, date)
			s.logger.Error("Malformed availability response", zap.Error(err))
			return nil, fmt.Errorf("error checking availability: %w", err)
		}
	}

	matching := FilterSlots(slotsByDate[date], bucket, s.config.Location)
	if len(matching) == 0 {
		s.logger.Info("No matching slots found",
			zap.String("preferred_date", date),
			zap.String("preferred_time", bucket.Name),
			zap.Int("candidates", len(slotsByDate[date])))
		return &AvailabilityResult{
			Found:   false,
			Message: NoAvailabilityMessage(name, bucket.Name, date),
		}, nil
	}

	chosen := matching[0].Time
	formatted := FormatSlotTime(chosen, s.config.Location)
	s.logger.Info("Found slot",
		zap.Time("slot", chosen),
		zap.String("local_time", formatted),
		zap.String("timezone", s.config.Location.String()))

	return &AvailabilityResult{
		Found:         true,
		Slot:          chosen,
		FormattedTime: formatted,
		Message:       ProposalMessage(name, date, formatted, s.config.LocationLabel),
	}, nil
}

func (s *availabilityServiceImpl) logUpstreamError(err error) {
	var upstream *calcom.UpstreamError
	if errors.As(err, &upstream) {
		s.logger.Error("Cal.com availability request failed",
			zap.Int("status", upstream.StatusCode),
			zap.Any("headers", upstream.Header),
			zap.String("body", upstream.Body),
			zap.Error(err))
		return
	}
	s.logger.Error("Cal.com availability request failed", zap.Error(err))
}

// QueryWindow returns the UTC day bounds for a YYYY-MM-DD date:
// 00:00:00.000Z through 23:59:59.999Z.
func QueryWindow(date string) (time.Time, time.Time, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("preferred date %q is not YYYY-MM-DD", date)
	}
	start := day.UTC()
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end, nil
}

// FilterSlots keeps the slots whose local hour in loc falls inside bucket.
// Provider order is preserved.
func FilterSlots(slots []calcom.Slot, bucket models.TimeBucket, loc *time.Location) []calcom.Slot {
	var matching []calcom.Slot
	for _, slot := range slots {
		if bucket.Contains(slot.Time.In(loc).Hour()) {
			matching = append(matching, slot)
		}
	}
	return matching
}

// FormatSlotTime renders t as a 12-hour clock time in loc, e.g. "2:30 PM".
func FormatSlotTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(displayTimeLayout)
}
