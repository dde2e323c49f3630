package log

import (
	"io"

	"github.com/rs/zerolog"
)

// NewZerologWarnFunc builds the function installed into the errors package
// warning channel. Warnings implementing zerolog.LogObjectMarshaler keep
// their structured fields in the emitted record; everything else logs as a
// plain message.
//
// Wiring happens at the application edge to avoid an import cycle between
// the errors and log packages:
//
//	errors.SetZerologWarnFunc(log.NewZerologWarnFunc(os.Stderr))
func NewZerologWarnFunc(w io.Writer) func(error) {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return func(warning error) {
		event := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event = event.EmbedObject(obj)
		}
		event.Msg(warning.Error())
	}
}
