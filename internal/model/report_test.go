package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReportValidate(t *testing.T) {
	valid := Report{
		ID:         uuid.New(),
		ReportedAt: time.Now(),
	}

	tests := []struct {
		name    string
		mutate  func(*Report)
		wantErr bool
	}{
		{
			name:   "fuel needs only id and timestamp",
			mutate: func(r *Report) { r.Type = ReportTypeFuel },
		},
		{
			name:    "missing id",
			mutate:  func(r *Report) { r.Type = ReportTypeFuel; r.ID = uuid.Nil },
			wantErr: true,
		},
		{
			name:    "missing timestamp",
			mutate:  func(r *Report) { r.Type = ReportTypeFuel; r.ReportedAt = time.Time{} },
			wantErr: true,
		},
		{
			name:   "worked hours with hours",
			mutate: func(r *Report) { r.Type = ReportTypeWorkedHours; r.Hours = 8 },
		},
		{
			name:    "worked hours without hours",
			mutate:  func(r *Report) { r.Type = ReportTypeWorkedHours },
			wantErr: true,
		},
		{
			name:    "trips without trip count",
			mutate:  func(r *Report) { r.Type = ReportTypeTrips },
			wantErr: true,
		},
		{
			name:    "debris receipt without unit count",
			mutate:  func(r *Report) { r.Type = ReportTypeDebrisReceipt },
			wantErr: true,
		},
		{
			name:    "unknown type",
			mutate:  func(r *Report) { r.Type = "TELEMETRY" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := valid
			tt.mutate(&report)
			err := report.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReportDay(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	report := Report{ReportedAt: time.Date(2026, 3, 14, 23, 45, 0, 0, loc)}

	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if got := report.Day(); !got.Equal(want) {
		t.Fatalf("day = %s, want %s", got, want)
	}
}
