/*
Package simtime implements fixed-point simulation time for discrete-event
simulations.
A [Time] is an exact integer multiple of a process-wide resolution, so adding
and comparing times never accumulates floating-point drift.

# Features

  - Immutable time values, ensuring safe usage across multiple goroutines
  - Resolutions from one second down to one attosecond
  - Overflow-checked arithmetic that fails instead of wrapping around
  - Exact conversions between units, failing on precision loss
  - Parsing and formatting of times such as "1.5ms" or "1s 500us"

# Representation

A Time is a single int64 holding the number of resolution steps.
The resolution is 10^Exp seconds, where Exp is in [MinScaleExp, MaxScaleExp],
and is kept by a [Registry].
The package uses the registry returned by [Default], which has to be set
exactly once, with [SetResolution] or [Configure], before any nonzero time is
created.
Setting the same resolution again is a no-op, setting a different one is an error.
The zero Time is 0s and is valid even before the resolution is set.

# Supported Ranges

The range of times depends on the resolution:

	| Resolution | Exp | Range                          |
	| ---------- | --- | ------------------------------ |
	| s          |   0 | ±9223372036854775807s          |
	| ms         |  -3 | ±292 million years             |
	| us         |  -6 | ±292 thousand years            |
	| ns         |  -9 | ±292 years                     |
	| ps         | -12 | ±106 days                      |
	| fs         | -15 | ±2.56 hours                    |
	| as         | -18 | ±9.22 seconds                  |

The exact bounds are reported by [MaxTime] and [Scale.Range].

# Operations

Times can be added, subtracted, negated and compared, multiplied and divided
by integers and floats, and divided by each other with [Time.Rat].
A plain number can be divided by a time with [Int64Quo], [Uint64Quo] and
[Float64Quo]; the result is computed in integers whenever possible.
Numeric model parameters are accepted through the [Param] interface.

# Units and Formatting

[Time.InUnit] and [Time.Split] express a time in whole units of one of the
predefined [Unit] values.
[Time.String] picks the coarsest unit in which the time still has an integer
part, [Time.UnitString] uses a given unit and [Time.FormatStyle] offers
control over precision and separators.
[Parse] accepts the output of all of them.

# Errors

Errors wrap one of the sentinel errors [ErrConfiguration], [ErrOverflow],
[ErrPrecisionLoss], [ErrFormat], [ErrType] and [ErrDivisionByZero], which can
be checked with [errors.Is].
The package returns errors or panics, depending on the situation.
*/
package simtime
