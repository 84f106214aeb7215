package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsPackedTypeExcludesChar(t *testing.T) {
	// Char encodes as a length-delimited UTF-8 string, so it can't be
	// packed alongside other elements in one frame.
	require.False(t, IsPackedType(Char))
}

func TestIsPackedTypeExcludesDuration(t *testing.T) {
	// Duration encodes as a {seconds, nanos} record, its own
	// length-delimited payload — same reasoning as Char above, even
	// though the source table this module is derived from lists
	// Duration as packable.
	require.False(t, IsPackedType(Duration))
}

func TestIsPackedTypeIncludesNumericScalars(t *testing.T) {
	for _, ty := range []StandardType{Bool, Short, Int, Long, Float, Double, DayOfWeek, Month, Year, ZoneOffset} {
		require.True(t, IsPackedType(ty), "expected %s to be packed-eligible", ty)
	}
}

func TestIsPackedTypeExcludesLengthDelimited(t *testing.T) {
	for _, ty := range []StandardType{StringType, Binary, ZoneID, MonthDay, YearMonth, Period, Duration} {
		require.False(t, IsPackedType(ty), "expected %s not to be packed-eligible", ty)
	}
}

func TestTimeFormatterDefaultsToRFC3339Nano(t *testing.T) {
	var f *TimeFormatter
	tm := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.Equal(t, tm.Format(time.RFC3339Nano), f.Format(tm))
}

func TestTimeFormatterRoundTrip(t *testing.T) {
	f := &TimeFormatter{Layout: time.RFC3339}
	tm := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	parsed, err := f.Parse(f.Format(tm))
	require.NoError(t, err)
	require.True(t, tm.Equal(parsed))
}
