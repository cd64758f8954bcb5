package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/models"
)

func TestSplitEvenly(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		userIDs []string
		want    []string // expected share amounts, in order
	}{
		{
			name:    "divides evenly",
			total:   "100",
			userIDs: []string{"A", "B"},
			want:    []string{"50", "50"},
		},
		{
			name:    "leftover cent goes to the first participant",
			total:   "100",
			userIDs: []string{"A", "B", "C"},
			want:    []string{"33.34", "33.33", "33.33"},
		},
		{
			name:    "two leftover cents go to the first two",
			total:   "0.11",
			userIDs: []string{"A", "B", "C"},
			want:    []string{"0.04", "0.04", "0.03"},
		},
		{
			name:    "single participant takes it all",
			total:   "19.99",
			userIDs: []string{"A"},
			want:    []string{"19.99"},
		},
		{
			name:    "no participants",
			total:   "10",
			userIDs: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := SplitEvenly(dec(tt.total), tt.userIDs)
			if len(shares) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.want))
			}

			sum := decimal.Zero
			for i, s := range shares {
				if s.UserID != tt.userIDs[i] {
					t.Errorf("share %d user = %s, want %s", i, s.UserID, tt.userIDs[i])
				}
				if !s.Amount.Equal(dec(tt.want[i])) {
					t.Errorf("share %d amount = %s, want %s", i, s.Amount, tt.want[i])
				}
				sum = sum.Add(s.Amount)
			}
			if len(shares) > 0 && !sum.Equal(dec(tt.total)) {
				t.Errorf("shares sum to %s, want %s exactly", sum, tt.total)
			}
		})
	}
}

func TestValidateShares(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		shares  []models.Share
		wantErr bool
	}{
		{
			name:   "exact sum",
			total:  "100",
			shares: []models.Share{share("A", "60"), share("B", "40")},
		},
		{
			name:   "within a cent",
			total:  "100",
			shares: []models.Share{share("A", "33.33"), share("B", "33.33"), share("C", "33.33")},
		},
		{
			name:    "off by more than a cent",
			total:   "100",
			shares:  []models.Share{share("A", "50"), share("B", "40")},
			wantErr: true,
		},
		{
			name:    "negative share",
			total:   "10",
			shares:  []models.Share{share("A", "20"), share("B", "-10")},
			wantErr: true,
		},
		{
			name:   "zero share is allowed",
			total:  "10",
			shares: []models.Share{share("A", "10"), share("B", "0")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShares(dec(tt.total), tt.shares)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShares() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
