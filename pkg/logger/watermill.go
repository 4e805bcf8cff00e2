package logx

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// watermillAdapter routes watermill's internal logging through zerolog.
type watermillAdapter struct {
	fields watermill.LogFields
}

// Watermill returns a watermill.LoggerAdapter backed by the global logger.
func Watermill() watermill.LoggerAdapter {
	return &watermillAdapter{fields: watermill.LogFields{}}
}

func (a *watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.event(log.Error(), fields).Err(err).Msg(msg)
}

func (a *watermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.event(log.Info(), fields).Msg(msg)
}

func (a *watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.event(log.Debug(), fields).Msg(msg)
}

func (a *watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.event(log.Trace(), fields).Msg(msg)
}

func (a *watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillAdapter{fields: a.fields.Add(fields)}
}

func (a *watermillAdapter) event(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	return e.Str("component", "watermill").Fields(map[string]any(a.fields.Add(fields)))
}
