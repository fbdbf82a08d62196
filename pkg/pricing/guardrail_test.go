package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustForInventory(t *testing.T) {
	t.Parallel()

	band := []float64{15, 20, 25}

	tests := []struct {
		name      string
		price     float64
		onHand    int
		reorder   int
		wantPrice float64
		wantNote  string
	}{
		{
			name:      "low stock raises price",
			price:     20,
			onHand:    5,
			reorder:   10,
			wantPrice: 20.6,
			wantNote:  NoteLowInventory,
		},
		{
			name:      "at reorder point still counts as low",
			price:     20,
			onHand:    10,
			reorder:   10,
			wantPrice: 20.6,
			wantNote:  NoteLowInventory,
		},
		{
			name:      "overstock cuts price",
			price:     20,
			onHand:    25,
			reorder:   10,
			wantPrice: 19.4,
			wantNote:  NoteHighInventory,
		},
		{
			name:      "exactly double reorder is not overstock",
			price:     20,
			onHand:    20,
			reorder:   10,
			wantPrice: 20,
			wantNote:  "",
		},
		{
			name:      "healthy stock leaves price alone",
			price:     20,
			onHand:    15,
			reorder:   10,
			wantPrice: 20,
			wantNote:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, note := AdjustForInventory(tt.price, tt.onHand, tt.reorder, band)
			assert.InDelta(t, tt.wantPrice, got, 1e-9)
			assert.Equal(t, tt.wantNote, note)
		})
	}
}

func TestAdjustForInventory_ReclampsToBand(t *testing.T) {
	t.Parallel()

	band := []float64{15, 20, 25}

	// Low-stock bump would land at 25.75, above the band ceiling.
	got, note := AdjustForInventory(25, 2, 10, band)
	assert.Equal(t, 25.0, got)
	assert.Equal(t, NoteLowInventory, note)

	// Overstock cut would land at 14.55, below the band floor.
	got, note = AdjustForInventory(15, 30, 10, band)
	assert.Equal(t, 15.0, got)
	assert.Equal(t, NoteHighInventory, note)
}

func TestAdjustForInventory_EmptyBand(t *testing.T) {
	t.Parallel()

	got, note := AdjustForInventory(20, 5, 10, nil)
	assert.InDelta(t, 20.6, got, 1e-9)
	assert.Equal(t, NoteLowInventory, note)
}
