package availability

import (
	"context"
	"fmt"

	appointmentRepo "praxisagent/database/repository/appointment"
)

// SlotService is the oracle answering "which times are still free on this
// date". It has no side effects of its own.
type SlotService interface {
	// ListCandidateSlots returns free "HH:MM" times for the date, in
	// day order. The conversation offers the first two.
	ListCandidateSlots(ctx context.Context, date string) ([]string, error)
}

// DefaultSlotService walks the practice's opening window in fixed steps and
// drops every time already taken by a persisted appointment.
type DefaultSlotService struct {
	Repo          appointmentRepo.AppointmentRepository
	OpenMinute    int
	CloseMinute   int
	SlotMinutes   int
	MaxCandidates int
}

// NewDefaultSlotService builds the service from "HH:MM" opening hours.
func NewDefaultSlotService(repo appointmentRepo.AppointmentRepository, open, close string, slotMinutes, maxCandidates int) (*DefaultSlotService, error) {
	openMin, err := clockToMinutes(open)
	if err != nil {
		return nil, fmt.Errorf("invalid opening time %q: %w", open, err)
	}
	closeMin, err := clockToMinutes(close)
	if err != nil {
		return nil, fmt.Errorf("invalid closing time %q: %w", close, err)
	}
	if closeMin <= openMin {
		return nil, fmt.Errorf("closing time %q is not after opening time %q", close, open)
	}
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot length must be positive, got %d", slotMinutes)
	}
	return &DefaultSlotService{
		Repo:          repo,
		OpenMinute:    openMin,
		CloseMinute:   closeMin,
		SlotMinutes:   slotMinutes,
		MaxCandidates: maxCandidates,
	}, nil
}

func (s *DefaultSlotService) ListCandidateSlots(ctx context.Context, date string) ([]string, error) {
	appts, err := s.Repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments for %s: %w", date, err)
	}

	taken := make(map[string]bool, len(appts))
	for _, a := range appts {
		taken[a.Time] = true
	}

	var free []string
	for m := s.OpenMinute; m+s.SlotMinutes <= s.CloseMinute; m += s.SlotMinutes {
		slot := minutesToClock(m)
		if taken[slot] {
			continue
		}
		free = append(free, slot)
		if s.MaxCandidates > 0 && len(free) == s.MaxCandidates {
			break
		}
	}
	return free, nil
}

func clockToMinutes(clock string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("out of range: %s", clock)
	}
	return h*60 + m, nil
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
