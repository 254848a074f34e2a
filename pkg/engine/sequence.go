// Package engine holds the pure computations behind the back office:
// sequential identifier allocation, loan ledger aggregation and
// field-collection arrears scheduling. Nothing here performs I/O or keeps
// state; every function is a total function over its arguments and is safe
// to call concurrently.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultShortCode is used when a branch has no short code configured.
const DefaultShortCode = "PMCD"

// Identifier kinds in the <CODE>-<KIND>-<NN> scheme.
const (
	KindLoan   = "LN"
	KindGroup  = "GR"
	KindClient = "SD"
)

// NextSequentialID derives the next unused identifier of the given kind for
// a branch short code, from the full set of existing identifiers the caller
// has already loaded. Matching is case-insensitive; identifiers of another
// code, another kind or with a non-numeric suffix are ignored. The result is
// max(matched)+1 with the number zero-padded to at least two digits.
//
// This is a pure computation over a snapshot: it neither reserves the
// identifier nor guards against two callers allocating from equally stale
// snapshots. Uniqueness is the storage layer's concern.
func NextSequentialID(code, kind string, existing []string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		code = DefaultShortCode
	}

	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(code) + `-` + regexp.QuoteMeta(kind) + `-(\d+)$`)

	latest := 0
	for _, id := range existing {
		m := re.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > latest {
			latest = n
		}
	}

	return fmt.Sprintf("%s-%s-%02d", strings.ToUpper(code), strings.ToUpper(kind), latest+1)
}
