// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

var monthAbbreviations = [...]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// ParseTime parses an API timestamp with the same leniency the
// renderers use for display, in the local zone.
func ParseTime(value string) (time.Time, bool) {
	return defaultRenderer.parseDate(value)
}

// ParseTime parses an API timestamp in the renderer's zone.
func (r Renderer) ParseTime(value string) (time.Time, bool) {
	return r.parseDate(value)
}

// Timestamp formats an event timestamp with the default Renderer.
func Timestamp(value string) string {
	return defaultRenderer.Timestamp(value)
}

// Timestamp formats an API timestamp as "12 de fev de 2026 às 10:00"
// in the renderer's zone. An unparsable value is returned unchanged.
func (r Renderer) Timestamp(value string) string {
	parsed, ok := r.parseDate(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("%02d de %s de %d às %02d:%02d",
		parsed.Day(), monthAbbreviations[parsed.Month()-1], parsed.Year(),
		parsed.Hour(), parsed.Minute())
}

// ShortDate formats an API timestamp as "12/02/2026 10:00", or returns
// it unchanged when unparsable.
func (r Renderer) ShortDate(value string) string {
	parsed, ok := r.parseDate(value)
	if !ok {
		return value
	}
	return parsed.Format("02/01/2006 15:04")
}

var relativeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "agora", DivBy: time.Second},
	{D: 2 * time.Second, Format: "%s 1 segundo", DivBy: 1},
	{D: time.Minute, Format: "%s %d segundos", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "%s 1 minuto", DivBy: 1},
	{D: time.Hour, Format: "%s %d minutos", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "%s 1 hora", DivBy: 1},
	{D: humanize.Day, Format: "%s %d horas", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "%s 1 dia", DivBy: 1},
	{D: humanize.Week, Format: "%s %d dias", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "%s 1 semana", DivBy: 1},
	{D: humanize.Month, Format: "%s %d semanas", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "%s 1 mês", DivBy: 1},
	{D: humanize.Year, Format: "%s %d meses", DivBy: humanize.Month},
	{D: 18 * humanize.Month, Format: "%s 1 ano", DivBy: 1},
	{D: 2 * humanize.Year, Format: "%s 2 anos", DivBy: 1},
	{D: humanize.LongTime, Format: "%s %d anos", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "%s muito tempo", DivBy: 1},
}

// Relative describes then relative to now in Portuguese: "há 3 dias"
// for the past, "em 2 horas" for the future.
func Relative(then, now time.Time) string {
	return humanize.CustomRelTime(then, now, "há", "em", relativeMagnitudes)
}

// RelativeTimestamp parses an API timestamp and describes it relative
// to now. An unparsable value is returned unchanged.
func (r Renderer) RelativeTimestamp(value string, now time.Time) string {
	parsed, ok := r.parseDate(value)
	if !ok {
		return value
	}
	return Relative(parsed, now)
}

// TimeToClose formats an average time-to-close given in hours:
// minutes below one hour, hours below one day, days otherwise. A nil
// average (nothing closed yet) reads "N/A".
func TimeToClose(hours *float64) string {
	if hours == nil {
		return "N/A"
	}
	switch value := *hours; {
	case value < 1:
		return fmt.Sprintf("%dmin", int(math.Round(value*60)))
	case value < 24:
		return fmt.Sprintf("%dh", int(math.Round(value)))
	default:
		return fmt.Sprintf("%dd", int(math.Round(value/24)))
	}
}
