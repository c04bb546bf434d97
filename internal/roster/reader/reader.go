// Package reader produces the worker-keyed roster view used by CSV
// export, per §4.6.
package reader

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rosterforge/roster-engine/internal/roster/domain"
	"github.com/rosterforge/roster-engine/internal/roster/repository"
)

// Row is one worker's roster view: display fields plus one label per
// horizon date, in date order.
type Row struct {
	DisplayName     string
	Roles           string
	ShiftsPerRoster int
	Labels          []string // length N, aligned with the dates Read returns
}

// Reader reads the current roster for a horizon and renders it per
// worker, for CSV export.
type Reader struct {
	workers   *repository.WorkerRepository
	roles     *repository.RoleRepository
	shifts    *repository.ShiftRepository
	timeslots *repository.TimeSlotRepository
	leaves    *repository.LeaveRepository
}

// NewReader creates a roster reader.
func NewReader(
	workers *repository.WorkerRepository,
	roles *repository.RoleRepository,
	shifts *repository.ShiftRepository,
	timeslots *repository.TimeSlotRepository,
	leaves *repository.LeaveRepository,
) *Reader {
	return &Reader{workers: workers, roles: roles, shifts: shifts, timeslots: timeslots, leaves: leaves}
}

// Read produces the roster view for the N days starting at start,
// ordered by (role_name, last_name, first_name) per §4.6.
func (r *Reader) Read(ctx context.Context, start time.Time, n int) ([]time.Time, []Row, error) {
	end := start.AddDate(0, 0, n-1)

	workers, err := r.workers.ListAvailable(ctx)
	if err != nil {
		return nil, nil, err
	}
	roles, err := r.roles.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	roleNames := make(map[string]string, len(roles))
	for _, role := range roles {
		roleNames[role.ID] = role.Name
	}

	shifts, err := r.shifts.ListSortedByType(ctx)
	if err != nil {
		return nil, nil, err
	}
	shiftTypes := make(map[string]string, len(shifts))
	for _, s := range shifts {
		shiftTypes[s.ID] = s.ShiftType
	}

	slots, err := r.timeslots.ListInRange(ctx, start, end)
	if err != nil {
		return nil, nil, err
	}
	timeSlotIDs := make([]string, len(slots))
	for i, ts := range slots {
		timeSlotIDs[i] = ts.ID
	}
	staffByTimeSlot, err := r.timeslots.StaffByTimeSlot(ctx, timeSlotIDs)
	if err != nil {
		return nil, nil, err
	}

	leaves, err := r.leaves.ListInRange(ctx, start, end)
	if err != nil {
		return nil, nil, err
	}

	dates := make([]time.Time, n)
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i)
	}

	rows := buildRows(workers, roleNames, shiftTypes, slots, staffByTimeSlot, leaves, dates)
	return dates, rows, nil
}

func buildRows(
	workers []domain.Worker,
	roleNames map[string]string,
	shiftTypes map[string]string,
	slots []domain.TimeSlot,
	staffByTimeSlot map[string][]string,
	leaves []domain.Leave,
	dates []time.Time,
) []Row {
	assignedByWorkerDate := make(map[string]map[string][]string) // worker id -> dateKey -> shift types
	for _, ts := range slots {
		key := ts.Date.UTC().Format("2006-01-02")
		for _, workerID := range staffByTimeSlot[ts.ID] {
			if assignedByWorkerDate[workerID] == nil {
				assignedByWorkerDate[workerID] = make(map[string][]string)
			}
			assignedByWorkerDate[workerID][key] = append(assignedByWorkerDate[workerID][key], shiftTypes[ts.ShiftID])
		}
	}

	leaveByWorkerDate := make(map[string]map[string]string)
	for _, lv := range leaves {
		key := lv.Date.UTC().Format("2006-01-02")
		if leaveByWorkerDate[lv.WorkerID] == nil {
			leaveByWorkerDate[lv.WorkerID] = make(map[string]string)
		}
		leaveByWorkerDate[lv.WorkerID][key] = lv.Description
	}

	rows := make([]Row, 0, len(workers))
	for _, worker := range workers {
		names := make([]string, 0, len(worker.RoleIDs))
		for _, roleID := range worker.RoleIDs {
			if name, ok := roleNames[roleID]; ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		labels := make([]string, len(dates))
		for i, date := range dates {
			key := date.UTC().Format("2006-01-02")
			if shiftTypesOnDate, ok := assignedByWorkerDate[worker.ID][key]; ok && len(shiftTypesOnDate) > 0 {
				labels[i] = strings.Join(shiftTypesOnDate, ", ")
				continue
			}
			if desc, ok := leaveByWorkerDate[worker.ID][key]; ok {
				labels[i] = desc
				continue
			}
			labels[i] = "X"
		}

		rows = append(rows, Row{
			DisplayName:     worker.DisplayName(),
			Roles:           strings.Join(names, " ") + " ",
			ShiftsPerRoster: worker.ShiftsPerRoster,
			Labels:          labels,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].sortKey() < rows[j].sortKey()
	})
	return rows
}

// sortKey orders by (role_name, last_name, first_name) per §4.6. Roles is
// already the space-joined, sorted role name list, which sorts workers
// with the same primary role together; last/first name are embedded in
// DisplayName as "Last, First".
func (r Row) sortKey() string {
	return r.Roles + "\x00" + r.DisplayName
}
