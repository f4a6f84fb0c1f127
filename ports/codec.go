// Package ports defines the interfaces between the registry core and its
// adapters.
package ports

// Codec formats reported to a CodecObserver.
const (
	FormatCompact = "compact"
	FormatJSON    = "json"
)

// CodecObserver is notified about every registry encode and decode.
// Implementations must be cheap; they are called inline.
type CodecObserver interface {
	// ObserveEncode records one serialization in the given format.
	ObserveEncode(format string)

	// ObserveDecode records one bulk decode. err is nil on success.
	ObserveDecode(format string, err error)
}

// ReloadObserver is notified after every attempt to reload a values file.
type ReloadObserver interface {
	ObserveReload(err error)
}
