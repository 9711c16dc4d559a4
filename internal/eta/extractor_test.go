package eta_test

import (
	"testing"

	"github.com/neckchi/vesseleta/internal/eta"
	"github.com/neckchi/vesseleta/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cells   []string
		header  []string
		wantETA string
		wantETD string
	}{
		{
			name:    "date cell followed by a time cell",
			cells:   []string{"SRI SUREE", "25080S", "THX", "22/07/2025", "10:00"},
			wantETA: "2025-07-22 10:00:00",
		},
		{
			name:    "date and time in one cell",
			cells:   []string{"WAN HAI 517", "S093", "05/08/2025 14:30"},
			wantETA: "2025-08-05 14:30:00",
		},
		{
			name:    "date with time beats an earlier date only value",
			cells:   []string{"SRI SUREE", "21/07/2025", "Cut-off", "22/07/2025 10:00"},
			wantETA: "2025-07-22 10:00:00",
		},
		{
			name:    "entity encoded separators",
			cells:   []string{"SRI SUREE", "22&#47;07&#47;2025 10&#58;00"},
			wantETA: "2025-07-22 10:00:00",
		},
		{
			name:    "iso date time",
			cells:   []string{"EVER BLINK", "2025-07-20 08:15"},
			wantETA: "2025-07-20 08:15:00",
		},
		{
			name:    "dotted day first date",
			cells:   []string{"EVER BLINK", "20.07.2025"},
			wantETA: "2025-07-20 00:00:00",
		},
		{
			name:    "month first when the second part cannot be a month",
			cells:   []string{"EVER BLINK", "07/25/2025 06:00"},
			wantETA: "2025-07-25 06:00:00",
		},
		{
			name:    "labels inside the cell",
			cells:   []string{"SRI SUREE voy 25080S ETD 23/07/2025 18:00 ETA 22/07/2025 10:00"},
			wantETA: "2025-07-22 10:00:00",
			wantETD: "2025-07-23 18:00:00",
		},
		{
			name:    "labels from the header row",
			cells:   []string{"SRI SUREE", "23/07/2025 18:00", "22/07/2025 10:00"},
			header:  []string{"Vessel", "ETD", "ETA"},
			wantETA: "2025-07-22 10:00:00",
			wantETD: "2025-07-23 18:00:00",
		},
		{
			name:    "unlabeled value preferred over a departure",
			cells:   []string{"SRI SUREE", "Departure 23/07/2025 18:00", "22/07/2025 10:00"},
			wantETA: "2025-07-22 10:00:00",
			wantETD: "2025-07-23 18:00:00",
		},
		{
			name:    "invalid calendar date is skipped",
			cells:   []string{"SRI SUREE", "31/02/2025 10:00", "01/03/2025 11:00"},
			wantETA: "2025-03-01 11:00:00",
		},
		{
			name:  "no date at all",
			cells: []string{"SRI SUREE", "25080S", "TBA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := eta.Extract(tt.cells, tt.header)

			if tt.wantETA == "" {
				assert.Nil(t, got.ETA)
				return
			}
			require.NotNil(t, got.ETA)
			assert.Equal(t, tt.wantETA, *got.ETA)
			if tt.wantETD == "" {
				assert.Nil(t, got.ETD)
			} else {
				require.NotNil(t, got.ETD)
				assert.Equal(t, tt.wantETD, *got.ETD)
			}
		})
	}
}

func TestExtractFromCandidate_FallsBackToWindow(t *testing.T) {
	t.Parallel()

	c := schema.MatchCandidate{
		RowCells:   []string{"SRI SUREE voy 25080S"},
		Confidence: schema.VesselAndVoyage,
		Window:     "SRI SUREE voy 25080S\nArrival 22/07/2025 10:00\nDeparture 23/07/2025 18:00",
	}

	got := eta.ExtractFromCandidate(c)

	require.NotNil(t, got.ETA)
	assert.Equal(t, "2025-07-22 10:00:00", *got.ETA)
	require.NotNil(t, got.ETD)
	assert.Equal(t, "2025-07-23 18:00:00", *got.ETD)
}

func TestExtractFromCandidate_RowWinsOverWindow(t *testing.T) {
	t.Parallel()

	c := schema.MatchCandidate{
		RowCells: []string{"SRI SUREE voy 25080S 22/07/2025 10:00"},
		Window:   "SRI SUREE voy 25080S 22/07/2025 10:00\nKOTA LAYANG ETA 30/07/2025 06:00",
	}

	got := eta.ExtractFromCandidate(c)

	require.NotNil(t, got.ETA)
	assert.Equal(t, "2025-07-22 10:00:00", *got.ETA)
}

func TestExtractFromCandidate_LeadIsLastResort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		window string
		want   string
	}{
		{"date only above the vessel line", "SRI SUREE voy 25080S\nberth 3", "2025-07-22 10:00:00"},
		{"window date wins over lead", "SRI SUREE voy 25080S\nETA 24/07/2025 06:00", "2025-07-24 06:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := schema.MatchCandidate{
				RowCells:   []string{"SRI SUREE voy 25080S"},
				Confidence: schema.VesselAndVoyage,
				Window:     tt.window,
				Lead:       "Arriving 22/07/2025 10:00",
			}

			got := eta.ExtractFromCandidate(c)

			require.NotNil(t, got.ETA)
			assert.Equal(t, tt.want, *got.ETA)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-07-22 10:00:00", "2025-07-22 10:00:00", true},
		{"2025-07-22T10:00:00+07:00", "2025-07-22 10:00:00", true},
		{"2025-07-22T10:00", "2025-07-22 10:00:00", true},
		{"22/07/2025 10:00", "2025-07-22 10:00:00", true},
		{"2025-02-30 10:00:00", "", false},
		{"soon", "", false},
		{"  ", "", false},
	}

	for _, tt := range tests {
		got, ok := eta.Normalize(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
