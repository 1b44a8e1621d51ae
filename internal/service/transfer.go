package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/repository"
)

// Line kinds of the JSONL interchange format. Each line is a habit or an
// event with the kind discriminator flattened into the object.
const (
	lineKindHabit = "habit"
	lineKindEvent = "event"
)

// maxImportLine bounds a single JSONL line; notes and meta stay far below.
const maxImportLine = 1 << 20

type habitLine struct {
	Kind string `json:"kind"`
	models.Habit
}

type eventLine struct {
	Kind string `json:"kind"`
	models.Event
}

type transferService struct {
	habitRepo repository.HabitRepository
	eventRepo repository.EventRepository
}

// NewTransferService creates a new JSONL import/export service
func NewTransferService(habitRepo repository.HabitRepository, eventRepo repository.EventRepository) TransferService {
	return &transferService{
		habitRepo: habitRepo,
		eventRepo: eventRepo,
	}
}

func (s *transferService) Export(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	habits, err := s.habitRepo.ListByOwner(ctx, userID, true)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	// Habits first so an import can resolve event habitIds in one pass
	for i := range habits {
		if err := enc.Encode(habitLine{Kind: lineKindHabit, Habit: habits[i]}); err != nil {
			return fmt.Errorf("encoding habit line: %w", err)
		}
	}

	for i := range habits {
		events, err := s.eventRepo.ListByHabit(ctx, habits[i].ID, nil, nil)
		if err != nil {
			return err
		}
		for j := range events {
			if err := enc.Encode(eventLine{Kind: lineKindEvent, Event: events[j]}); err != nil {
				return fmt.Errorf("encoding event line: %w", err)
			}
		}
	}
	return bw.Flush()
}

func (s *transferService) Import(ctx context.Context, userID uuid.UUID, r io.Reader, dryRun bool) (*models.ImportReport, error) {
	report := &models.ImportReport{DryRun: dryRun}

	// Two passes over the parsed lines: habits first, then events, so an
	// export file imports cleanly regardless of interleaving.
	var habitLines []habitLine
	var eventLines []eventLine
	lineNos := map[int]int{} // index into eventLines -> source line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxImportLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		report.Lines++

		var probe struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal([]byte(line), &probe); err != nil {
			report.Errors = append(report.Errors, models.ImportLineError{
				Line: lineNo, Message: "invalid JSON",
			})
			continue
		}

		switch probe.Kind {
		case lineKindHabit:
			var hl habitLine
			if err := json.Unmarshal([]byte(line), &hl); err != nil {
				report.Errors = append(report.Errors, models.ImportLineError{
					Line: lineNo, Message: "malformed habit line",
				})
				continue
			}
			if err := validateImportHabit(&hl.Habit); err != nil {
				report.Errors = append(report.Errors, models.ImportLineError{
					Line: lineNo, Message: err.Error(),
				})
				continue
			}
			habitLines = append(habitLines, hl)
		case lineKindEvent:
			var el eventLine
			if err := json.Unmarshal([]byte(line), &el); err != nil {
				report.Errors = append(report.Errors, models.ImportLineError{
					Line: lineNo, Message: "malformed event line",
				})
				continue
			}
			if err := validateImportEvent(&el.Event); err != nil {
				report.Errors = append(report.Errors, models.ImportLineError{
					Line: lineNo, Message: err.Error(),
				})
				continue
			}
			lineNos[len(eventLines)] = lineNo
			eventLines = append(eventLines, el)
		default:
			report.Errors = append(report.Errors, models.ImportLineError{
				Line: lineNo, Message: fmt.Sprintf("unknown kind %q, expected habit or event", probe.Kind),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading import body: %w", err)
	}

	if dryRun {
		report.Habits = len(habitLines)
		report.Events = len(eventLines)
		return report, nil
	}

	for i := range habitLines {
		habit := habitLines[i].Habit
		if habit.ID != uuid.Nil {
			if _, err := s.habitRepo.GetByID(ctx, habit.ID); err == nil {
				report.Skipped++
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
		// Imported habits always belong to the importer
		habit.OwnerUserID = userID
		habit.Owner = nil
		if err := s.habitRepo.Create(ctx, &habit); err != nil {
			report.Errors = append(report.Errors, models.ImportLineError{
				Line: 0, Message: fmt.Sprintf("habit %s: %v", habit.ID, err),
			})
			continue
		}
		report.Habits++
	}

	for i := range eventLines {
		event := eventLines[i].Event
		srcLine := lineNos[i]

		habit, err := s.habitRepo.GetByID(ctx, event.HabitID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				report.Errors = append(report.Errors, models.ImportLineError{
					Line: srcLine, Message: fmt.Sprintf("habit %s not found", event.HabitID),
				})
				continue
			}
			return nil, err
		}
		if habit.OwnerUserID != userID {
			report.Errors = append(report.Errors, models.ImportLineError{
				Line: srcLine, Message: fmt.Sprintf("habit %s not found", event.HabitID),
			})
			continue
		}

		if event.ID != uuid.Nil {
			if _, err := s.eventRepo.GetByID(ctx, event.ID); err == nil {
				report.Skipped++
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
		dup, err := s.eventRepo.ExistsDuplicate(ctx, &event)
		if err != nil {
			return nil, err
		}
		if dup {
			report.Skipped++
			continue
		}

		event.UserID = userID
		if event.Source == "" {
			event.Source = models.SourceImport
		}
		if _, err := s.eventRepo.Create(ctx, &event); err != nil {
			if errors.Is(err, repository.ErrDuplicateClientID) {
				report.Skipped++
				continue
			}
			report.Errors = append(report.Errors, models.ImportLineError{
				Line: srcLine, Message: fmt.Sprintf("event %s: %v", event.ID, err),
			})
			continue
		}
		report.Events++
	}

	return report, nil
}

func validateImportHabit(h *models.Habit) error {
	if h.Name == "" || len(h.Name) > 60 {
		return errors.New("habit name must be 1-60 characters")
	}
	if !validHabitType(string(h.Type)) {
		return errors.New("habit type must be build or break")
	}
	if h.Target <= 0 {
		return errors.New("habit target must be greater than zero")
	}
	if h.Period == "" {
		h.Period = models.PeriodDay
	} else if !validPeriod(string(h.Period)) {
		return errors.New("unknown habit period")
	}
	if h.Unit == "" {
		h.Unit = models.UnitCount
	} else if !validUnit(string(h.Unit)) {
		return errors.New("unknown habit unit")
	}
	if h.Visibility == "" {
		h.Visibility = models.VisibilityPrivate
	} else if !validVisibility(string(h.Visibility)) {
		return errors.New("unknown habit visibility")
	}
	if h.ScheduleDowMask != nil && (*h.ScheduleDowMask < 0 || *h.ScheduleDowMask > 127) {
		return errors.New("scheduleDowMask must be between 0 and 127")
	}
	return nil
}

func validateImportEvent(e *models.Event) error {
	if e.HabitID == uuid.Nil {
		return errors.New("event habitId is required")
	}
	if e.TsClient.IsZero() {
		return errors.New("event tsClient is required")
	}
	// Void-control events legitimately carry value 0
	if e.Value < 0 || (e.Value == 0 && !e.IsVoid()) {
		return errors.New("event value must be greater than zero")
	}
	if e.Note != nil && len(*e.Note) > 280 {
		return errors.New("event note must be at most 280 characters")
	}
	if e.ClientID != nil && len(*e.ClientID) > 64 {
		return errors.New("event clientId must be at most 64 characters")
	}
	return nil
}
