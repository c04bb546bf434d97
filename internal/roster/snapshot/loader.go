package snapshot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/internal/roster/repository"
	"github.com/rosterforge/roster-engine/pkg/database"
)

// Loader builds a Snapshot for one generation run. It reads through the
// entity store's repositories; the downstream generation components
// (model builder, solver driver, writer) read exclusively from the
// returned Snapshot.
type Loader struct {
	db           *database.DB
	workers      *repository.WorkerRepository
	shifts       *repository.ShiftRepository
	skillMix     *repository.SkillMixRepository
	sequences    *repository.SequenceRepository
	timeslots    *repository.TimeSlotRepository
	staffRequest *repository.StaffRequestRepository
	leaves       *repository.LeaveRepository
}

// NewLoader creates a new snapshot loader.
func NewLoader(
	db *database.DB,
	workers *repository.WorkerRepository,
	shifts *repository.ShiftRepository,
	skillMix *repository.SkillMixRepository,
	sequences *repository.SequenceRepository,
	timeslots *repository.TimeSlotRepository,
	staffRequest *repository.StaffRequestRepository,
	leaves *repository.LeaveRepository,
) *Loader {
	return &Loader{
		db:           db,
		workers:      workers,
		shifts:       shifts,
		skillMix:     skillMix,
		sequences:    sequences,
		timeslots:    timeslots,
		staffRequest: staffRequest,
		leaves:       leaves,
	}
}

// RecreateHorizon deletes any existing timeslots over [start, start+N-1]
// and creates one fresh timeslot per (date, shift) pair where the shift
// is active on that date, per §3's lifecycle rule. It runs as a single
// write transaction ahead of the read-only Load call.
func (l *Loader) RecreateHorizon(ctx context.Context, start time.Time, n int) error {
	return l.db.WithTx(ctx, func(ctx context.Context) error {
		end := start.AddDate(0, 0, n-1)
		if err := l.timeslots.DeleteInRange(ctx, start, end); err != nil {
			return fmt.Errorf("delete horizon timeslots: %w", err)
		}

		shifts, err := l.shifts.ListSortedByType(ctx)
		if err != nil {
			return fmt.Errorf("list shifts: %w", err)
		}
		dayGroupDays, err := l.shifts.DayGroupDayNumbers(ctx)
		if err != nil {
			return fmt.Errorf("list day group days: %w", err)
		}

		var fresh []domain.TimeSlot
		for dayNum := 1; dayNum <= n; dayNum++ {
			date := start.AddDate(0, 0, dayNum-1)
			for _, shift := range shifts {
				days := dayGroupDays[shift.DayGroupID]
				if days[dayNum] {
					fresh = append(fresh, domain.TimeSlot{
						ID:      uuid.New().String(),
						Date:    date,
						ShiftID: shift.ID,
					})
				}
			}
		}

		return l.timeslots.CreateForHorizon(ctx, fresh)
	})
}

// Load reads a self-consistent Snapshot for the horizon starting at
// start, inside one short read-only transaction.
func (l *Loader) Load(ctx context.Context, start time.Time, n int) (*Snapshot, error) {
	snap := &Snapshot{
		StartDate:     start,
		N:             n,
		CurrentStart:  start,
		CurrentEnd:    start.AddDate(0, 0, n-1),
		PreviousStart: start.AddDate(0, 0, -n),
		PreviousEnd:   start.AddDate(0, 0, -1),
	}
	snap.ExtendedStart = snap.PreviousStart
	snap.ExtendedEnd = snap.CurrentEnd

	err := l.db.WithTx(ctx, func(ctx context.Context) error {
		workers, err := l.workers.ListAvailable(ctx)
		if err != nil {
			return fmt.Errorf("list workers: %w", err)
		}
		snap.Workers = workers
		snap.WorkerNum = make(map[string]int, len(workers))
		for i, w := range workers {
			snap.WorkerNum[w.ID] = i
		}

		shifts, err := l.shifts.ListSortedByType(ctx)
		if err != nil {
			return fmt.Errorf("list shifts: %w", err)
		}
		snap.Shifts = shifts
		snap.ShiftNum = make(map[string]int, len(shifts))
		for i, s := range shifts {
			snap.ShiftNum[s.ID] = i
		}

		snap.Dates = make([]time.Time, n)
		snap.DateDayNum = make(map[string]int, n)
		for i := 0; i < n; i++ {
			date := start.AddDate(0, 0, i)
			snap.Dates[i] = date
			snap.DateDayNum[DateKey(date)] = i + 1
		}

		if err := l.loadDayGroupMisconfig(ctx, snap, shifts); err != nil {
			return err
		}

		if err := l.loadTimeSlots(ctx, snap); err != nil {
			return err
		}

		leaves, err := l.leaves.ListInRange(ctx, snap.ExtendedStart, snap.ExtendedEnd)
		if err != nil {
			return fmt.Errorf("list leaves: %w", err)
		}
		snap.SetLeaves(leaves)

		if err := l.loadRequestMatrix(ctx, snap); err != nil {
			return err
		}

		if err := l.loadSkillMixRules(ctx, snap); err != nil {
			return err
		}

		return l.loadSequences(ctx, snap)
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func (l *Loader) loadDayGroupMisconfig(ctx context.Context, snap *Snapshot, shifts []domain.Shift) error {
	dayGroupDays, err := l.shifts.DayGroupDayNumbers(ctx)
	if err != nil {
		return fmt.Errorf("list day group days: %w", err)
	}

	for _, s := range shifts {
		if s.DayGroupID == "" || len(dayGroupDays[s.DayGroupID]) == 0 {
			snap.MisconfiguredReasons = append(snap.MisconfiguredReasons,
				fmt.Sprintf("shift %q has no day group assigned", s.ShiftType))
		}
	}

	sequences, err := l.sequences.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list sequences: %w", err)
	}
	for _, seq := range sequences {
		if seq.DayGroupID == "" || len(dayGroupDays[seq.DayGroupID]) == 0 {
			snap.MisconfiguredReasons = append(snap.MisconfiguredReasons,
				fmt.Sprintf("shift sequence %q has no day group assigned", seq.Name))
		}
	}

	return nil
}

func (l *Loader) loadTimeSlots(ctx context.Context, snap *Snapshot) error {
	slots, err := l.timeslots.ListInRange(ctx, snap.ExtendedStart, snap.ExtendedEnd)
	if err != nil {
		return fmt.Errorf("list timeslots: %w", err)
	}

	snap.TimeSlotsByDate = make(map[string][]domain.TimeSlot)
	snap.TimeSlotIDByDateShift = make(map[string]map[string]string)
	shiftTypeByID := lo.SliceToMap(snap.Shifts, func(s domain.Shift) (string, string) { return s.ID, s.ShiftType })

	for _, slot := range slots {
		key := DateKey(slot.Date)
		snap.TimeSlotsByDate[key] = append(snap.TimeSlotsByDate[key], slot)
		if snap.TimeSlotIDByDateShift[key] == nil {
			snap.TimeSlotIDByDateShift[key] = make(map[string]string)
		}
		snap.TimeSlotIDByDateShift[key][slot.ShiftID] = slot.ID
	}
	for key := range snap.TimeSlotsByDate {
		byDate := snap.TimeSlotsByDate[key]
		sort.Slice(byDate, func(i, j int) bool {
			return shiftTypeByID[byDate[i].ShiftID] < shiftTypeByID[byDate[j].ShiftID]
		})
		snap.TimeSlotsByDate[key] = byDate
	}

	previousIDs := lo.FilterMap(slots, func(s domain.TimeSlot, _ int) (string, bool) {
		inPrevious := !s.Date.Before(snap.PreviousStart) && !s.Date.After(snap.PreviousEnd)
		return s.ID, inPrevious
	})
	staff, err := l.timeslots.StaffByTimeSlot(ctx, previousIDs)
	if err != nil {
		return fmt.Errorf("list previous-period staff: %w", err)
	}
	snap.PreviousStaff = staff

	return nil
}

func (l *Loader) loadRequestMatrix(ctx context.Context, snap *Snapshot) error {
	requests, err := l.staffRequest.ListInRange(ctx, snap.CurrentStart, snap.CurrentEnd)
	if err != nil {
		return fmt.Errorf("list staff requests: %w", err)
	}

	s := len(snap.Shifts)
	snap.Request = make([]int32, len(snap.Workers)*snap.N*s)

	for _, req := range requests {
		workerNum, ok := snap.WorkerNum[req.WorkerID]
		if !ok {
			continue // not an available worker in this snapshot
		}
		dayNum, ok := snap.DayNumOf(req.Date)
		if !ok {
			continue
		}
		shiftNum, ok := snap.ShiftNum[req.ShiftID]
		if !ok {
			continue
		}
		snap.Request[snap.RequestIndex(workerNum, dayNum-1, shiftNum)] = int32(req.SignedPriority())
	}

	return nil
}

func (l *Loader) loadSkillMixRules(ctx context.Context, snap *Snapshot) error {
	rows, err := l.skillMix.ListRuleRows(ctx)
	if err != nil {
		return fmt.Errorf("list skill-mix rule rows: %w", err)
	}
	empty, err := l.skillMix.RuleIDsWithoutRoles(ctx)
	if err != nil {
		return fmt.Errorf("list empty skill-mix rules: %w", err)
	}

	snap.SkillMixRules = make(map[string][]SkillMixRule)
	ruleIndex := make(map[string]int) // rule id -> index within its shift's slice

	for _, row := range rows {
		idx, ok := ruleIndex[row.RuleID]
		if !ok {
			idx = len(snap.SkillMixRules[row.ShiftID])
			snap.SkillMixRules[row.ShiftID] = append(snap.SkillMixRules[row.ShiftID], SkillMixRule{
				RuleID:     row.RuleID,
				RoleCounts: make(map[string]int),
			})
			ruleIndex[row.RuleID] = idx
		}
		snap.SkillMixRules[row.ShiftID][idx].RoleCounts[row.RoleID] = row.Count
	}

	for _, e := range empty {
		if _, seen := ruleIndex[e.RuleID]; seen {
			continue
		}
		snap.SkillMixRules[e.ShiftID] = append(snap.SkillMixRules[e.ShiftID], SkillMixRule{
			RuleID:     e.RuleID,
			RoleCounts: map[string]int{},
		})
	}

	return nil
}

func (l *Loader) loadSequences(ctx context.Context, snap *Snapshot) error {
	sequences, err := l.sequences.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list shift sequences: %w", err)
	}
	positions, err := l.sequences.ListPositions(ctx)
	if err != nil {
		return fmt.Errorf("list shift sequence positions: %w", err)
	}
	dayGroupDays, err := l.shifts.DayGroupDayNumbers(ctx)
	if err != nil {
		return fmt.Errorf("list day group days: %w", err)
	}

	positionsBySequence := make(map[string][]SequenceStep)
	for _, p := range positions {
		positionsBySequence[p.SequenceID] = append(positionsBySequence[p.SequenceID], SequenceStep{
			Position: p.Position,
			ShiftID:  p.ShiftID,
		})
	}

	snap.Sequences = make(map[string][]Sequence)
	for _, seq := range sequences {
		normalized := Sequence{
			SequenceID: seq.ID,
			DayNumbers: dayGroupDays[seq.DayGroupID],
			Positions:  positionsBySequence[seq.ID],
		}
		for _, workerID := range seq.WorkerIDs {
			snap.Sequences[workerID] = append(snap.Sequences[workerID], normalized)
		}
	}

	return nil
}
