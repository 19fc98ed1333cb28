package model

import "testing"

func TestParseReservationStatus(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  ReservationStatus
		ok    bool
	}{
		{name: "pending lowercase", input: "pending", want: StatusPending, ok: true},
		{name: "confirmed padded", input: "  CONFIRMED ", want: StatusConfirmed, ok: true},
		{name: "attended mixed case", input: "Attended", want: StatusAttended, ok: true},
		{name: "noshow", input: "NOSHOW", want: StatusNoShow, ok: true},
		{name: "cancelled", input: "cancelled", want: StatusCancelled, ok: true},
		{name: "unknown", input: "delayed", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseReservationStatus(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestReservationStatusValid(t *testing.T) {
	if ReservationStatus("WAITLISTED").Valid() {
		t.Fatalf("unexpected valid status")
	}
	if !StatusNoShow.Valid() {
		t.Fatalf("expected NOSHOW to be valid")
	}
}
