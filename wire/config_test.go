package wire

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/anirudhraja/schemapb/schema"
)

func TestUnwrapSingleFieldRecordsOff(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Int)))
	encoded := Encode(s, nil)(map[string]any{"value": int64(150)})

	got, err := Decode(s, &Config{UnwrapSingleFieldRecords: false})(encoded)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"value": int64(150)}, got)
}

func TestUnwrapSingleFieldRecordsOn(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Int)))
	encoded := Encode(s, nil)(map[string]any{"value": int64(150)})

	got, err := Decode(s, &Config{UnwrapSingleFieldRecords: true})(encoded)
	require.NoError(t, err)
	require.Equal(t, int64(150), got)
}

func TestUnwrapSingleFieldRecordsIgnoresMultiFieldRecords(t *testing.T) {
	// Unwrapping only applies to a sole field literally named "value";
	// a two-field record must decode to a map either way, verified with
	// cmp.Diff rather than require.Equal to exercise the same
	// structural-diff dependency the rest of the pack pulls in for
	// nested-value comparisons.
	s := schema.NewGenericRecord(
		schema.Field("value", schema.NewPrimitive(schema.Int)),
		schema.Field("extra", schema.NewPrimitive(schema.StringType)),
	)
	value := map[string]any{"value": int64(150), "extra": "x"}
	encoded := Encode(s, nil)(value)

	got, err := Decode(s, &Config{UnwrapSingleFieldRecords: true})(encoded)
	require.NoError(t, err)
	if diff := cmp.Diff(value, got); diff != "" {
		t.Fatalf("unexpected decode result (-want +got):\n%s", diff)
	}
}
