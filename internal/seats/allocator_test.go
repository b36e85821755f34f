package seats

import (
	"testing"

	"github.com/aerolinea/booking-backend/internal/database"
	"github.com/stretchr/testify/assert"
)

func testFlight() *database.Flight {
	return &database.Flight{
		EconomySeats:  12,
		BusinessSeats: 3,
		FirstSeats:    1,
	}
}

func TestLabels_PrefixPerClass(t *testing.T) {
	f := testFlight()

	assert.Equal(t, []string{"B1", "B2", "B3"}, Labels(f, database.ClassBusiness))
	assert.Equal(t, []string{"F1"}, Labels(f, database.ClassFirst))

	economy := Labels(f, database.ClassEconomy)
	assert.Len(t, economy, 12)
	assert.Equal(t, "A1", economy[0])
	assert.Equal(t, "A12", economy[11])
}

func TestLabels_IndexOrderBeyondNine(t *testing.T) {
	economy := Labels(testFlight(), database.ClassEconomy)

	// Ascending numeric index, not lexicographic: A10 follows A9.
	assert.Equal(t, "A9", economy[8])
	assert.Equal(t, "A10", economy[9])
}

func TestFree_RemovesOccupied(t *testing.T) {
	f := testFlight()

	free := Free(f, database.ClassEconomy, []string{"A1", "A3"})

	assert.Equal(t, "A2", free[0])
	assert.NotContains(t, free, "A1")
	assert.NotContains(t, free, "A3")
	assert.Len(t, free, 10)
}

func TestFree_Deterministic(t *testing.T) {
	f := testFlight()
	occupied := []string{"A2", "A5", "A7"}

	first := Free(f, database.ClassEconomy, occupied)
	second := Free(f, database.ClassEconomy, occupied)

	assert.Equal(t, first, second)
}

func TestFree_ZeroCapacity(t *testing.T) {
	f := &database.Flight{EconomySeats: 10}

	assert.Empty(t, Free(f, database.ClassFirst, nil))
}

func TestFree_IgnoresForeignLabels(t *testing.T) {
	f := testFlight()

	// A seat from another class never shrinks this class's free set.
	free := Free(f, database.ClassBusiness, []string{"A1", "F1"})

	assert.Equal(t, []string{"B1", "B2", "B3"}, free)
}

func TestFree_FullClass(t *testing.T) {
	f := testFlight()

	free := Free(f, database.ClassBusiness, []string{"B1", "B2", "B3"})

	assert.Empty(t, free)
}

func TestIsFree(t *testing.T) {
	f := testFlight()
	occupied := []string{"B2"}

	assert.True(t, IsFree(f, database.ClassBusiness, occupied, "B1"))
	assert.False(t, IsFree(f, database.ClassBusiness, occupied, "B2"))
	assert.False(t, IsFree(f, database.ClassBusiness, occupied, "B4"))
	assert.False(t, IsFree(f, database.ClassBusiness, occupied, "A1"))
}
