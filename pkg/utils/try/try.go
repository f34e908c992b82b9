// Package try shortens handling of (value, error) pairs where an error is not expected,
// mainly in tests and in program startup.
//
//	pool := try.To(pgxpool.Connect(ctx, uri)).OrFatal(t)
package try

// something have method `Fatal`.
//
// For example, *testing.T and *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either is a pair of a value and an error. Only one of them is meaningful.
type Either[T any] struct {
	value T
	err   error
}

func To[T any](value T, err error) Either[T] {
	if err != nil {
		return Either[T]{err: err}
	}
	return Either[T]{value: value}
}

func (e Either[T]) Get() (T, error) {
	return e.value, e.err
}

// OrFatal returns the value, or calls ftl.Fatal with the error.
//
// If ftl has "Helper()" (like *testing.T), it is called before Fatal.
func (e Either[T]) OrFatal(ftl Fataler) T {
	if e.err == nil {
		return e.value
	}
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper()
	}
	ftl.Fatal(e.err)
	return *new(T)
}

// OrDefault returns the value, or d when it has an error.
func (e Either[T]) OrDefault(d T) T {
	if e.err != nil {
		return d
	}
	return e.value
}

// Map converts the value when it has no error.
func Map[T any, R any](e Either[T], mapper func(T) R) Either[R] {
	if e.err != nil {
		return Either[R]{err: e.err}
	}
	return Either[R]{value: mapper(e.value)}
}

// Either2 is Either for functions returning two values and an error.
type Either2[T any, U any] struct {
	first  T
	second U
	err    error
}

func To2[T any, U any](first T, second U, err error) Either2[T, U] {
	if err != nil {
		return Either2[T, U]{err: err}
	}
	return Either2[T, U]{first: first, second: second}
}

// OrFatal returns the values, or calls ftl.Fatal with the error.
func (e Either2[T, U]) OrFatal(ftl Fataler) (T, U) {
	if e.err == nil {
		return e.first, e.second
	}
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper()
	}
	ftl.Fatal(e.err)
	return *new(T), *new(U)
}
