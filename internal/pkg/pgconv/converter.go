package pgconv

import (
	"time"

	"tablebook/internal/domain/policy"

	"github.com/jackc/pgx/v5/pgtype"
)

const microsPerMinute = int64(time.Minute / time.Microsecond)

func TimeOfDayToPgtype(t policy.TimeOfDay) pgtype.Time {
	minutes := int64(t.Hour())*60 + int64(t.Minute())
	return pgtype.Time{Microseconds: minutes * microsPerMinute, Valid: true}
}

func TimeOfDayFromPgtype(pt pgtype.Time) (policy.TimeOfDay, error) {
	minutes := pt.Microseconds / microsPerMinute
	return policy.NewTimeOfDay(int(minutes/60), int(minutes%60))
}

func DateToPgtype(t time.Time) pgtype.Date {
	return pgtype.Date{Time: policy.DateOf(t), Valid: true}
}

func TextFromPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func PtrFromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}
