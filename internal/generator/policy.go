package generator

import "github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/normalization"

// MissingScriptPolicy decides what happens when an SDK has no generation script.
type MissingScriptPolicy string

const (
	// MissingScriptIgnore treats a missing script as nothing to do, silently.
	MissingScriptIgnore MissingScriptPolicy = "ignore"
	// MissingScriptWarn writes a diagnostic to the log and continues.
	MissingScriptWarn MissingScriptPolicy = "warn"
	// MissingScriptFail returns ErrScriptMissing.
	MissingScriptFail MissingScriptPolicy = "fail"
)

var policyNormalizer = normalization.NewNormalizer(map[string]MissingScriptPolicy{
	"ignore": MissingScriptIgnore,
	"warn":   MissingScriptWarn,
	"fail":   MissingScriptFail,
}, MissingScriptIgnore)

// ParseMissingScriptPolicy accepts ignore|warn|fail (case-insensitive); empty means ignore.
func ParseMissingScriptPolicy(raw string) (MissingScriptPolicy, error) {
	return policyNormalizer.NormalizeWithError(raw)
}
