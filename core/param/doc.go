/*
Package param defines typed, constraint-validated parameters.

A parameter is a named value cell of one of five kinds:

  - int:    int64, optionally bounded with Range
  - uint:   uint64, optionally bounded with Range
  - float:  float64, optionally bounded with Range
  - bool:   bool, no rules
  - string: string, optionally constrained with Text (length and allowed set)

Constraints are checked on every assignment. A value that fails validation
is rejected with a *ConstraintError and the stored value is left untouched:

	speed := param.New[int64]("speed", 50, param.Between[int64](0, 200))
	if err := speed.Set(250); err != nil {
		// errors.Is(err, param.ErrConstraintViolation) == true
		// speed.Get() == 50
	}

# Textual Form

Every parameter renders to and parses from text. Numbers use their decimal
form, booleans render as "true" and "false" (and also parse "1", "0" and any
letter case), strings are used verbatim. The compact and JSON codecs in the
registry package rely on this form for round trips.
*/
package param
