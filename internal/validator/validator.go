package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// Report formats the diagnostics of an analysis for strict/batch use.
// The analyzer recovers from all of these silently while the graph is being
// produced; here they become visible without changing that graph.
func Report(diags []domain.Diagnostic) string {
	if len(diags) == 0 {
		return "OK: no diagnostics\n"
	}

	var sb strings.Builder
	counts := map[domain.Severity]int{}
	for _, d := range diags {
		counts[d.Severity]++
		fmt.Fprintf(&sb, "%s\n", d.String())
	}
	fmt.Fprintf(&sb, "\n%d error(s), %d warning(s), %d note(s)\n",
		counts[domain.SeverityError], counts[domain.SeverityWarning], counts[domain.SeverityInfo])
	return sb.String()
}

// HasErrors reports whether any diagnostic is error-severity.
func HasErrors(diags []domain.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}
