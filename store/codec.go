package store

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rustyeddy/stockinsight/insight"
)

// envelope tags a payload with its variant so Decode knows what to build.
type envelope struct {
	Kind    string             `msgpack:"kind"`
	Payload msgpack.RawMessage `msgpack:"payload"`
}

// Encode serialises a result with msgpack.
func Encode(r insight.Result) ([]byte, error) {
	payload, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Kind(), err)
	}
	return msgpack.Marshal(envelope{Kind: r.Kind().String(), Payload: payload})
}

// Decode is the inverse of Encode.
func Decode(b []byte) (insight.Result, error) {
	var env envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	kind, err := insight.ParseKind(env.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case insight.DailyRange:
		var r insight.DailyRangeSeries
		if err := msgpack.Unmarshal(env.Payload, &r); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		for i := range r.Points {
			r.Points[i].Date = utc(r.Points[i].Date)
		}
		return r, nil
	case insight.ClosingTrend:
		var r insight.ClosingTrendSeries
		if err := msgpack.Unmarshal(env.Payload, &r); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		for i := range r.Points {
			r.Points[i].Date = utc(r.Points[i].Date)
		}
		return r, nil
	case insight.Volume:
		var r insight.VolumeSeries
		if err := msgpack.Unmarshal(env.Payload, &r); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		for i := range r.Points {
			r.Points[i].Date = utc(r.Points[i].Date)
		}
		return r, nil
	case insight.TopN:
		var r insight.TopNTable
		if err := msgpack.Unmarshal(env.Payload, &r); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		for i := range r.Rows {
			r.Rows[i].Date = utc(r.Rows[i].Date)
		}
		return r, nil
	case insight.Correlation:
		var r insight.CorrelationMatrix
		if err := msgpack.Unmarshal(env.Payload, &r); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return r, nil
	}
	return nil, fmt.Errorf("%w: %s", insight.ErrUnknownKind, env.Kind)
}

// msgpack hands times back in the local zone.
func utc(t time.Time) time.Time { return t.UTC() }
