// Package jerr defines the error kinds shared across the jtree-partition
// packages. These are sentinel values checked with errors.Is, not a type
// hierarchy: most callers only need to distinguish "recoverable" from
// "fatal", the same distinction the underlying C++ library drew between a
// caught capacity exception and an abort()-worthy invariant violation.
package jerr

import "errors"

var (
	// Usage reports a caller error: bad flags, malformed input file, wrong
	// argument count.
	Usage = errors.New("usage error")

	// Io wraps any failure from the filesystem layer (open/read/write/mmap).
	Io = errors.New("io error")

	// Capacity means a fixed-size table or arena ran out of room.
	Capacity = errors.New("capacity exceeded")

	// OutOfMemory means a write would take a table past its byte budget
	// (jnode.Options.ByteBudget).
	OutOfMemory = errors.New("out of memory")

	// BudgetExceeded is the only locally recoverable kind: a merge or
	// insertion produced more output than its caller-supplied budget
	// allows. Callers that see this may retry with a larger budget or defer
	// the offending vertex (see jtree's wide_seq handling).
	BudgetExceeded = errors.New("budget exceeded")

	// Invariant means the code detected a state that should be impossible.
	// There is no recovery path; callers should treat it as a bug report,
	// not a condition to branch on.
	Invariant = errors.New("invariant violation")
)
