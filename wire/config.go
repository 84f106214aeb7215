package wire

// Config holds the one runtime switch this module exposes. There is no
// configuration file format — callers flip the field on the
// process-wide DefaultConfig, or pass their own *Config through
// Encode/Decode, before encoding or decoding.
type Config struct {
	// UnwrapSingleFieldRecords, when true, makes a GenericRecord or
	// Record whose sole field is named "value" decode straight to that
	// field's value instead of a one-entry map/slice — a convenience
	// for callers bridging to well-known wrapper-style messages. Off by
	// default because it changes the shape of the decoded value.
	UnwrapSingleFieldRecords bool
}

// DefaultConfig is used by Decode/Encode when no *Config is supplied.
var DefaultConfig = &Config{}
