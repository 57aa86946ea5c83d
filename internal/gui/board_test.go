package gui

import (
	"testing"
	"time"

	"github.com/ohalin/pickdesk/internal/picking"
)

func TestCardTags(t *testing.T) {
	deadline := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		order picking.Order
		want  string
	}{
		{
			name:  "empty",
			order: picking.Order{},
			want:  "",
		},
		{
			name: "server supplied urgency text wins",
			order: picking.Order{
				Urgency:     picking.UrgencyOverdue,
				UrgencyText: "Просрочен",
			},
			want: "Просрочен",
		},
		{
			name:  "urgency code fallback",
			order: picking.Order{Urgency: picking.UrgencyDueSoon},
			want:  "due soon",
		},
		{
			name: "deadline and comment joined",
			order: picking.Order{
				ShipDeadline: &deadline,
				Comment:      "fragile",
			},
			want: "ship by 14.03 09:30 · fragile",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cardTags(tt.order); got != tt.want {
				t.Errorf("cardTags() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCardCounts(t *testing.T) {
	o := picking.Order{
		LinesDone:    2,
		TotalLines:   5,
		CollectedQty: 7.5,
		TotalQty:     12,
	}
	want := "2/5 lines · 7.5/12"
	if got := cardCounts(o); got != want {
		t.Errorf("cardCounts() = %q, want %q", got, want)
	}
}
