// Package gen provides gopter generators for portable types and their values, narrowed to
// the subset every target backend can actually ingest.
//
// Grounded on _examples/original_source/crates/dbcrossbar_trino/src/proptest.rs for the
// load-bearing narrowings (timestamp year range, leap-second exclusion, tz offset bounds,
// decimal precision/scale, geography coordinate bounds) and on the teacher's own use of
// table-driven construction for generator-like fixtures.
package gen

import (
	"reflect"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/shopspring/decimal"

	"github.com/stokaro/dbxform/portable"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// MinHiveYear is the earliest timestamp year accepted when targeting Hive/Athena, per
// spec.md §4.H.
const MinHiveYear = 1970

// MinYear is the earliest timestamp year accepted by every other backend.
const MinYear = 1900

// MaxYear is the latest timestamp year any backend accepts.
const MaxYear = 3500

// MaxDecimalPrecision bounds the precision of the decimals every backend can represent;
// Decimal keeps the scale at or below the chosen precision.
const MaxDecimalPrecision = 28

// ScalarKind generates one of the non-compound PortableType kinds uniformly. GeoJson,
// which needs an SRID, is not among them.
func ScalarKind() gopter.Gen {
	return gen.OneConstOf(
		portable.Bool, portable.Int16, portable.Int32, portable.Int64,
		portable.Float32, portable.Float64, portable.Decimal, portable.Text,
		portable.Date, portable.TimestampNoTz, portable.TimestampTz,
		portable.Uuid, portable.Json,
	)
}

// ScalarType generates a scalar PortableType (no Array/Struct/OneOf/Named, and no GeoJson).
func ScalarType() gopter.Gen {
	return ScalarKind().Map(func(k portable.Kind) portable.PortableType {
		return portable.PortableType{Kind: k}
	})
}

// Timestamp generates a leap-second-free, backend-ingestible timestamp within
// [minYear, MaxYear]. Pass MinHiveYear when targeting Hive/Athena, MinYear otherwise.
func Timestamp(minYear int) gopter.Gen {
	minTime := time.Date(minYear, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxTime := time.Date(MaxYear, 12, 31, 23, 59, 59, 0, time.UTC).Unix()
	return gen.Int64Range(minTime, maxTime).FlatMap(func(v interface{}) gopter.Gen {
		sec := v.(int64)
		return gen.Int64Range(0, 999_999_999).Map(func(nanos int64) time.Time {
			return time.Unix(sec, nanos).UTC()
		})
	}, timeType)
}

// TimeZoneOffset generates a UTC offset within the [-14:00, +14:00] band every backend
// accepts, in whole minutes.
func TimeZoneOffset() gopter.Gen {
	return gen.IntRange(-14*60, 14*60).Map(func(minutes int) time.Duration {
		return time.Duration(minutes) * time.Minute
	})
}

// Decimal generates a decimal.Decimal whose precision and scale satisfy spec.md §4.H's
// bound (precision <= 28, scale <= precision), string-canonicalized (no redundant leading
// zeros).
func Decimal() gopter.Gen {
	return gen.IntRange(1, MaxDecimalPrecision).FlatMap(func(v interface{}) gopter.Gen {
		precision := v.(int)
		return gen.IntRange(0, precision).FlatMap(func(sv interface{}) gopter.Gen {
			scale := sv.(int)
			maxUnscaled := int64(1)
			for i := 0; i < precision && maxUnscaled < 1_000_000_000_000_000; i++ {
				maxUnscaled *= 10
			}
			return gen.Int64Range(-maxUnscaled+1, maxUnscaled-1).Map(func(unscaled int64) decimal.Decimal {
				return decimal.New(unscaled, int32(-scale))
			})
		}, decimalType)
	}, decimalType)
}

// VarcharOfLength generates a UTF-8 string of length at most maxLen runes, truncating
// gopter's built-in alphanumeric generator rather than assembling one rune at a time so
// the shrinker still has readable failures to minimize toward.
func VarcharOfLength(maxLen int) gopter.Gen {
	return gen.AlphaString().Map(func(s string) string {
		runes := []rune(s)
		if len(runes) > maxLen {
			runes = runes[:maxLen]
		}
		return string(runes)
	})
}

// GeographyPoint generates a longitude/latitude pair within the bounds every backend's
// geography type accepts: lon in [-180, 180], lat in [-90, 90].
func GeographyPoint() gopter.Gen {
	lon := gen.Float64Range(-180, 180)
	lat := gen.Float64Range(-90, 90)
	return gopter.CombineGens(lon, lat).Map(func(vs []interface{}) [2]float64 {
		return [2]float64{vs[0].(float64), vs[1].(float64)}
	})
}

