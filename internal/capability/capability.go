// Package capability verifies at startup that the boosted-tree learner is
// available and, when it is not, explains how to fix it for the host OS.
package capability

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fipe-cli/internal/ensemble"
	"github.com/sells-group/fipe-cli/internal/failure"
)

// Header is printed before the remediation when the check fails.
const Header = "XGBoost não está instalado corretamente."

// Platform is a recognised host family.
type Platform string

const (
	PlatformMacOS   Platform = "darwin"
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformOther   Platform = "other"
)

var remediations = map[Platform]string{
	PlatformMacOS:   "Execute: brew install libomp",
	PlatformWindows: "Execute: pip install xgboost",
	PlatformLinux:   "Execute: sudo apt install libomp-dev (Debian/Ubuntu) ou sudo dnf install libomp (Fedora)",
	PlatformOther:   "Sistema não reconhecido, instale o XGBoost manualmente.",
}

// Result is the outcome of Check.
type Result struct {
	Available   bool
	Platform    Platform
	Remediation string
}

// LookupFunc reports whether a model kind is available.
type LookupFunc func(ensemble.Kind) (ensemble.Factory, bool)

// PlatformOf maps a GOOS value to its family.
func PlatformOf(goos string) Platform {
	switch goos {
	case "darwin":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	case "linux":
		return PlatformLinux
	default:
		return PlatformOther
	}
}

// Remediation returns the fix instruction for p.
func Remediation(p Platform) string {
	if r, ok := remediations[p]; ok {
		return r
	}
	return remediations[PlatformOther]
}

// Check probes lookup for the boosted learner. Remediation is set only when
// it is unavailable.
func Check(lookup LookupFunc, goos string) Result {
	p := PlatformOf(goos)
	if _, ok := lookup(ensemble.KindBoosted); ok {
		return Result{Available: true, Platform: p}
	}
	return Result{Platform: p, Remediation: Remediation(p)}
}

// Err returns a MissingCapability error for an unavailable result.
func (r Result) Err() error {
	if r.Available {
		return nil
	}
	return failure.New(failure.KindMissingCapability,
		eris.Errorf("capability: boosted learner unavailable on %s", r.Platform))
}

// Print writes the header and remediation for an unavailable result.
func (r Result) Print(w io.Writer) {
	if r.Available {
		return
	}
	_, _ = fmt.Fprintln(w, Header)
	_, _ = fmt.Fprintln(w, r.Remediation)
}
