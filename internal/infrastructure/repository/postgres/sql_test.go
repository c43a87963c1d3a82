package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsBindParameterMismatch(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "bind mismatch from pooled connection",
			err:  errors.New("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)"),
			want: true,
		},
		{
			name: "missing relation",
			err:  errors.New("pq: relation draft_archives does not exist"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isBindParameterMismatch(tc.err); got != tc.want {
				t.Fatalf("isBindParameterMismatch(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unnamed statement message",
			err:  errors.New("pq: unnamed prepared statement does not exist (26000)"),
			want: true,
		},
		{
			name: "26000 code with different wording",
			err:  errors.New("pq: prepared statement missing (26000)"),
			want: true,
		},
		{
			name: "missing relation",
			err:  errors.New("pq: relation draft_archives does not exist"),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUnnamedPreparedStatementMissing(tc.err); got != tc.want {
				t.Fatalf("isUnnamedPreparedStatementMissing(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := quoteLiteral("draft_abc"); got != "'draft_abc'" {
		t.Fatalf("unexpected quoted literal: %s", got)
	}
	if got := quoteLiteral("o'brien's keepers"); got != "'o''brien''s keepers'" {
		t.Fatalf("unexpected escaped literal: %s", got)
	}
}

func TestNullStringToInt64(t *testing.T) {
	cases := []struct {
		name string
		in   sql.NullString
		want int64
	}{
		{name: "integer string", in: sql.NullString{String: "128", Valid: true}, want: 128},
		{name: "null", in: sql.NullString{}, want: 0},
		{name: "timestamp text", in: sql.NullString{String: "2026-02-17 04:59:50.097223+00", Valid: true}, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nullStringToInt64(tc.in); got != tc.want {
				t.Fatalf("nullStringToInt64(%+v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
