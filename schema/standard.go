package schema

import "time"

// StandardType enumerates the scalar leaves a Primitive schema can
// carry. The calendar members (DayOfWeek .. ZonedDateTime) are
// first-class leaves here rather than nested well-known-type messages;
// on the wire DayOfWeek, Month, Year and ZoneOffset are varints,
// MonthDay, YearMonth, Period and Duration are small int records,
// ZoneID is a string, and Instant .. ZonedDateTime are formatted
// strings.
type StandardType string

const (
	Unit       StandardType = "unit"
	Bool       StandardType = "bool"
	Short      StandardType = "short"
	Int        StandardType = "int"
	Long       StandardType = "long"
	Float      StandardType = "float"
	Double     StandardType = "double"
	StringType StandardType = "string"
	Binary     StandardType = "binary"
	Char       StandardType = "char"

	DayOfWeek  StandardType = "day_of_week"
	Month      StandardType = "month"
	Year       StandardType = "year"
	ZoneOffset StandardType = "zone_offset"
	MonthDay   StandardType = "month_day"
	YearMonth  StandardType = "year_month"
	Period     StandardType = "period"
	Duration   StandardType = "duration"
	ZoneID     StandardType = "zone_id"

	Instant         StandardType = "instant"
	LocalDate       StandardType = "local_date"
	LocalTime       StandardType = "local_time"
	LocalDateTime   StandardType = "local_date_time"
	OffsetTime      StandardType = "offset_time"
	OffsetDateTime  StandardType = "offset_date_time"
	ZonedDateTime   StandardType = "zoned_date_time"
)

// packedEligible lists the scalar leaves safe to pack into a single
// length-delimited sequence frame. Char and Duration are deliberately
// excluded even though the source table names both packable: each
// encodes as its own length-delimited payload (a UTF-8 string for
// Char, a {seconds, nanos} record for Duration), and packing
// length-delimited elements back to back with no intervening tags
// would produce an undecodable frame — the same problem the spec's
// own open question flags for Char, just not called out for Duration.
var packedEligible = map[StandardType]struct{}{
	Bool:       {},
	Short:      {},
	Int:        {},
	Long:       {},
	Float:      {},
	Double:     {},
	DayOfWeek:  {},
	Month:      {},
	Year:       {},
	ZoneOffset: {},
}

// IsPackedType reports whether t is eligible for the packed sequence
// representation when it appears as a Sequence element on its own
// (Transform-over-packable handling lives in wire's canBePacked
// helper, which calls this for the primitive leaves).
func IsPackedType(t StandardType) bool {
	_, ok := packedEligible[t]
	return ok
}

// TimeFormatter carries the caller-supplied layout used to format and
// parse the string-encoded calendar types (Instant, LocalDate,
// LocalTime, LocalDateTime, OffsetTime, OffsetDateTime, ZonedDateTime).
// The layout lives on the schema itself so different temporal fields
// can use different precisions/layouts.
type TimeFormatter struct {
	Layout string
}

// RFC3339Formatter is the default formatter used when a temporal
// Primitive is built without an explicit one.
var RFC3339Formatter = &TimeFormatter{Layout: time.RFC3339Nano}

func (f *TimeFormatter) layout() string {
	if f == nil || f.Layout == "" {
		return time.RFC3339Nano
	}
	return f.Layout
}

// Format renders t using this formatter's layout.
func (f *TimeFormatter) Format(t time.Time) string {
	return t.Format(f.layout())
}

// Parse parses s using this formatter's layout.
func (f *TimeFormatter) Parse(s string) (time.Time, error) {
	return time.Parse(f.layout(), s)
}
