package orchestrators

import (
	"context"
	"log/slog"

	storeAttendance "canteen/internal/adapters/storage/attendance"
	"canteen/internal/domain/attendance"
	"canteen/internal/domain/dates"
)

// AttendanceAPI defines the backend calls needed to save attendance.
type AttendanceAPI interface {
	AddAttendance(ctx context.Context, days []dates.DateKey) error
	RemoveAttendance(ctx context.Context, days []dates.DateKey) error
}

// SaveAttendanceInput carries the two sets to reconcile.
type SaveAttendanceInput struct {
	Pending   attendance.Set
	Persisted attendance.Set
}

// SaveAttendanceDeps holds dependencies for SaveAttendance.
type SaveAttendanceDeps struct {
	API   AttendanceAPI
	Store storeAttendance.Store
}

// SaveAttendanceResult reports what was submitted. Saved is false only for
// the no-op case (empty diff). AddErr and RemoveErr expose per-call
// failures so a front-end can surface them; the local commit has already
// happened either way.
type SaveAttendanceResult struct {
	Applied   attendance.Changes
	Saved     bool
	AddErr    error
	RemoveErr error
}

// ExecuteSaveAttendance reconciles pending against persisted and submits
// the difference. The commit is optimistic: the durable store is rewritten
// to the pending set immediately after issuing the backend calls, without
// waiting for their confirmation.
// PRE: both sets satisfy the weekday invariant
// POST: empty diff => no calls issued, Saved=false, store untouched;
// otherwise the store now holds exactly the pending days
func ExecuteSaveAttendance(ctx context.Context, input SaveAttendanceInput, deps SaveAttendanceDeps) (SaveAttendanceResult, error) {
	changes := attendance.Diff(input.Pending, input.Persisted)
	if changes.Empty() {
		slog.Debug("attendance_save_noop")
		return SaveAttendanceResult{Applied: changes}, nil
	}

	result := SaveAttendanceResult{Applied: changes, Saved: true}

	if len(changes.ToAdd) > 0 {
		if err := deps.API.AddAttendance(ctx, changes.ToAdd); err != nil {
			slog.Error("attendance_add_failed", "days", changes.ToAdd, "error", err)
			result.AddErr = err
		}
	}
	if len(changes.ToRemove) > 0 {
		if err := deps.API.RemoveAttendance(ctx, changes.ToRemove); err != nil {
			slog.Error("attendance_remove_failed", "days", changes.ToRemove, "error", err)
			result.RemoveErr = err
		}
	}

	if err := deps.Store.Replace(ctx, input.Pending.Days()); err != nil {
		return result, err
	}

	slog.Info("attendance_saved",
		"added", len(changes.ToAdd),
		"removed", len(changes.ToRemove),
	)
	return result, nil
}
