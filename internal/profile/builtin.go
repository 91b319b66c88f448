package profile

import _ "embed"

//go:embed profiles/phicode.yaml
var phicodeYAML []byte

//go:embed profiles/operators.yaml
var operatorsYAML []byte

// builtinProfiles maps profile names to their embedded YAML content.
var builtinProfiles = map[string][]byte{
	"phicode":   phicodeYAML,
	"operators": operatorsYAML,
}
