package fields

import (
	"time"

	mondoc "github.com/mondoc/mondoc"
)

// Storage keeps datetimes at millisecond precision. For consistency the
// object representation uses the same precision: decoding from any
// sub-millisecond input rounds immediately, so rounding twice equals
// rounding once.
func roundToMillisecond(t time.Time) time.Time {
	us := t.Nanosecond() / 1000
	q, r := us/1000, us%1000
	ms := q
	switch {
	case r > 500:
		ms = q + 1
	case r == 500:
		// round half to even
		if q%2 == 1 {
			ms = q + 1
		}
	}
	base := t.Add(-time.Duration(t.Nanosecond()) * time.Nanosecond)
	if ms == 1000 {
		return base.Add(time.Second)
	}
	return base.Add(time.Duration(ms) * time.Millisecond)
}

const (
	dumpLayout    = "2006-01-02T15:04:05.000Z07:00"
	noOffsetMilli = "2006-01-02T15:04:05.999999999"
	dateLayout    = "2006-01-02"
)

func parseDateTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(noOffsetMilli, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DateTimeField accepts time.Time values or RFC 3339 strings and keeps them
// at millisecond precision.
type DateTimeField struct{ scalar }

// DateTime declares a datetime field.
func DateTime(name string, opts ...Option) *DateTimeField {
	f := &DateTimeField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return roundToMillisecond(t), nil
		case string:
			if parsed, ok := parseDateTime(t); ok {
				return roundToMillisecond(parsed), nil
			}
			return nil, f.fail(mondoc.CodeInvalidFormat, nil)
		}
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	f.dump = func(v any) (any, error) { return v.(time.Time).Format(dumpLayout), nil }
	f.encodeMongo = func(v any) (any, error) { return v.(time.Time).UTC(), nil }
	f.decodeMongo = func(v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return roundToMillisecond(t), nil
	}
	return f
}

// NaiveDateTimeField drops the offset and keeps the wall clock in UTC.
type NaiveDateTimeField struct{ scalar }

// NaiveDateTime declares a timezone-naive datetime field.
func NaiveDateTime(name string, opts ...Option) *NaiveDateTimeField {
	f := &NaiveDateTimeField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return roundToMillisecond(stripOffset(t)), nil
		case string:
			if parsed, ok := parseDateTime(t); ok {
				return roundToMillisecond(stripOffset(parsed)), nil
			}
			return nil, f.fail(mondoc.CodeInvalidFormat, nil)
		}
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	f.dump = func(v any) (any, error) { return v.(time.Time).Format(noOffsetMilli), nil }
	f.encodeMongo = func(v any) (any, error) { return v.(time.Time), nil }
	f.decodeMongo = func(v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return roundToMillisecond(stripOffset(t)), nil
	}
	return f
}

func stripOffset(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// AwareDateTimeField requires an explicit offset on input. Storage holds
// UTC; decode re-attaches UTC and converts to the configured display zone
// when one is set.
type AwareDateTimeField struct {
	scalar
	zone *time.Location
}

// AwareDateTime declares a timezone-aware datetime field. zone may be nil
// to keep values in UTC.
func AwareDateTime(name string, zone *time.Location, opts ...Option) *AwareDateTimeField {
	f := &AwareDateTimeField{scalar: scalar{Base: newBase(name, opts)}, zone: zone}
	f.coerce = func(v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return roundToMillisecond(t), nil
		case string:
			// RFC 3339 always carries an offset; offset-less layouts are
			// rejected here.
			parsed, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return nil, f.fail(mondoc.CodeInvalidFormat, nil)
			}
			return roundToMillisecond(parsed), nil
		}
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	f.dump = func(v any) (any, error) { return v.(time.Time).Format(dumpLayout), nil }
	f.encodeMongo = func(v any) (any, error) { return v.(time.Time).UTC(), nil }
	f.decodeMongo = func(v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		t = t.UTC()
		if f.zone != nil {
			t = t.In(f.zone)
		}
		return roundToMillisecond(t), nil
	}
	return f
}

// DateField holds a civil date, stored as a timestamp at midnight UTC.
type DateField struct{ scalar }

// Date declares a date field without a time component.
func Date(name string, opts ...Option) *DateField {
	f := &DateField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return midnight(t), nil
		case string:
			parsed, err := time.Parse(dateLayout, t)
			if err != nil {
				return nil, f.fail(mondoc.CodeInvalidFormat, nil)
			}
			return parsed, nil
		}
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	f.dump = func(v any) (any, error) { return v.(time.Time).Format(dateLayout), nil }
	f.encodeMongo = func(v any) (any, error) { return midnight(v.(time.Time)), nil }
	f.decodeMongo = func(v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return midnight(t), nil
	}
	return f
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
